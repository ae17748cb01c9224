package xpflag

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// OneOf is a pflag.Value restricted to a fixed set of strings.
type OneOf struct {
	allowed []string
	value   string
}

func NewOneOf(defaultValue string, allowed ...string) *OneOf {
	return &OneOf{allowed: allowed, value: defaultValue}
}

// Set implements pflag.Value.
func (o *OneOf) Set(value string) error {
	if !slices.Contains(o.allowed, value) {
		return fmt.Errorf("unexpected value %q, expected one of [%s]", value, o.Variants())
	}
	o.value = value
	return nil
}

// String implements pflag.Value.
func (o *OneOf) String() string {
	return o.value
}

// Type implements pflag.Value.
func (o *OneOf) Type() string {
	return "string"
}

func (o *OneOf) Variants() string {
	return strings.Join(o.allowed, ", ")
}

// Complete plugs the allowed values into the cobra shell completion
// framework:
//
//	cmd.Flags().VarP(level, "log-level", "l", "log level, one of "+level.Variants())
//	cmd.RegisterFlagCompletionFunc("log-level", level.Complete)
func (o *OneOf) Complete(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return o.allowed, cobra.ShellCompDirectiveKeepOrder | cobra.ShellCompDirectiveNoFileComp
}

var _ pflag.Value = (*OneOf)(nil)

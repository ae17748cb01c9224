package xpflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOneOf(t *testing.T) {
	level := NewOneOf("info", "debug", "info", "warn", "error")
	require.Equal(t, "info", level.String())

	require.NoError(t, level.Set("debug"))
	require.Equal(t, "debug", level.String())

	err := level.Set("trace")
	require.ErrorContains(t, err, "expected one of")
	require.Equal(t, "debug", level.String())

	require.Equal(t, "string", level.Type())
	require.Equal(t, "debug, info, warn, error", level.Variants())
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nkridge/procscope/pkg/must"
	"github.com/nkridge/procscope/pkg/xpflag"
)

var (
	app *App

	configPath  string
	procfsMount string
	logLevel    = xpflag.NewOneOf("info", "debug", "info", "warn", "error")

	rootCmd = &cobra.Command{
		Use:           "procscope",
		Short:         "Inspect processes and threads through procfs",
		Long:          "Race-aware introspection of running processes: thread enumeration with rescan-until-stable semantics, status field extraction, and procfs authenticity checks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags win over the config file.
			if cmd.Flags().Changed("procfs") {
				conf.Procfs = procfsMount
			}
			if cmd.Flags().Changed("log-level") {
				conf.LogLevel = logLevel.String()
			}

			app, err = newApp(conf)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			app.Shutdown()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to yaml config")
	rootCmd.PersistentFlags().StringVar(&procfsMount, "procfs", "", "procfs mount point to inspect")
	rootCmd.PersistentFlags().VarP(logLevel, "log-level", "l", "log level, one of "+logLevel.Variants())

	must.Must(rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must.Must(rootCmd.RegisterFlagCompletionFunc("log-level", logLevel.Complete))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

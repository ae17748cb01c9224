package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statusCmd = &cobra.Command{
		Use:   "status <pid> <field>",
		Short: "Read one integer field from the process status record",
		Long:  "Scan /proc/<pid>/status for the named field (Tgid, TracerPid, Threads, ...) and print its value. Fields that are not plain integers are rejected.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			pid, err := parsePid(args[0])
			if err != nil {
				return err
			}

			value, err := app.FS().Process(pid).GetStatusField(args[1])
			if err != nil {
				return err
			}

			fmt.Println(value)
			return nil
		},
	}

	tgidCmd = &cobra.Command{
		Use:   "tgid <pid>",
		Short: "Print the thread group id of a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			pid, err := parsePid(args[0])
			if err != nil {
				return err
			}

			tgid, err := app.FS().Process(pid).GetTgid()
			if err != nil {
				return err
			}

			fmt.Println(tgid)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(statusCmd, tgidCmd)
}

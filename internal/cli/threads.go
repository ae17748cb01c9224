package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nkridge/procscope/pkg/linux"
)

var (
	noRetry bool

	threadsCmd = &cobra.Command{
		Use:   "threads <pid>",
		Short: "Enumerate the threads of a process",
		Long:  "Walk /proc/<pid>/task, printing one thread id per line. The directory is rescanned until two consecutive passes discover nothing new, so threads spawned during the walk are caught; --no-retry caps the walk at two passes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePid(args[0])
			if err != nil {
				return err
			}

			retry := *app.conf.Threads.RetryUntilStable
			if cmd.Flags().Changed("no-retry") {
				retry = !noRetry
			}

			count := 0
			productive, err := app.FS().Process(pid).ListThreads(func(tid linux.ThreadID) (bool, error) {
				count++
				fmt.Println(tid)
				return true, nil
			}, retry)
			if err != nil {
				return err
			}

			app.Logger().Info("Thread listing settled",
				zap.Uint32("pid", uint32(pid)),
				zap.Int("threads", count),
				zap.Bool("final_pass_productive", productive),
			)
			return nil
		},
	}
)

func init() {
	threadsCmd.Flags().BoolVar(&noRetry, "no-retry", false, "stop after two passes even if threads are still appearing")

	rootCmd.AddCommand(threadsCmd)
}

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/nkridge/procscope/pkg/linux"
	"github.com/nkridge/procscope/pkg/linux/procfs"
)

type processRow struct {
	pid     linux.ProcessID
	tgid    linux.ProcessID
	comm    string
	threads int
	rss     uint64
}

var (
	snapshotConcurrency int

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Tabulate every process visible in procfs",
		Long:  "List all pids, then resolve the command name, thread group id, thread count and resident set size of each one concurrently. Processes that exit mid-snapshot are dropped from the table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			concurrency := app.conf.Snapshot.Concurrency
			if cmd.Flags().Changed("concurrency") {
				concurrency = snapshotConcurrency
			}
			if concurrency <= 0 {
				concurrency = 1
			}

			var pids []linux.ProcessID
			err := app.FS().ListProcesses(func(pid linux.ProcessID) error {
				pids = append(pids, pid)
				return nil
			})
			if err != nil {
				return err
			}

			var (
				mu   sync.Mutex
				rows = make(map[linux.ProcessID]*processRow, len(pids))
			)

			var g errgroup.Group
			g.SetLimit(concurrency)

			for _, pid := range pids {
				pid := pid // per-iteration copy; language version predates Go 1.22 loop scoping
				g.Go(func() error {
					row, err := resolveProcess(app.FS(), pid)
					switch {
					case errors.Is(err, fs.ErrNotExist), errors.Is(err, unix.ESRCH):
						// The process exited between the root scan and now.
						app.Logger().Debug("Process vanished during snapshot",
							zap.Uint32("pid", uint32(pid)))
						return nil
					case err != nil:
						return err
					}

					mu.Lock()
					rows[pid] = row
					mu.Unlock()
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			ordered := maps.Keys(rows)
			slices.Sort(ordered)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"pid", "tgid", "comm", "threads", "rss"})
			for _, pid := range ordered {
				row := rows[pid]
				table.Append([]string{
					fmt.Sprint(row.pid),
					fmt.Sprint(row.tgid),
					row.comm,
					fmt.Sprint(row.threads),
					humanize.IBytes(row.rss),
				})
			}
			table.Render()

			app.Logger().Info("Snapshot complete",
				zap.Int("processes", len(ordered)),
				zap.Int("vanished", len(pids)-len(ordered)),
			)
			return nil
		},
	}
)

func resolveProcess(f procfs.FS, pid linux.ProcessID) (*processRow, error) {
	proc := f.Process(pid)

	comm, err := proc.GetComm()
	if err != nil {
		return nil, err
	}

	tgid, err := proc.GetTgid()
	if err != nil {
		return nil, err
	}

	tids, err := proc.Threads()
	if err != nil {
		return nil, err
	}

	// Kernel threads carry no VmRSS line.
	rss, err := proc.GetStatusFieldBytes("VmRSS")
	if err != nil && !errors.Is(err, procfs.ErrFieldNotFound) {
		return nil, err
	}

	return &processRow{
		pid:     pid,
		tgid:    tgid,
		comm:    comm,
		threads: len(tids),
		rss:     rss,
	}, nil
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotConcurrency, "concurrency", 8, "number of processes resolved concurrently")

	rootCmd.AddCommand(snapshotCmd)
}

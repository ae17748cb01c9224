package procfs

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/nkridge/procscope/pkg/linux"
)

////////////////////////////////////////////////////////////////////////////////

// ThreadFunc inspects one discovered thread id and reports whether it claims
// it. A claimed id is never offered again during the same listing; an
// unclaimed id is offered once per scan pass. A non-nil error aborts the
// listing immediately.
type ThreadFunc func(tid linux.ThreadID) (bool, error)

// ListThreads walks /proc/<pid>/task and offers every thread id to fn.
//
// Threads come and go while the directory is being read, so a single scan can
// miss a thread cloned after its slot was passed. Same approach as gdb: rescan
// until a pass discovers nothing new. With retryUntilStable the listing ends
// after two consecutive unproductive passes, otherwise after exactly two
// passes. The reported bool is whether the final pass still discovered
// something, i.e. whether the listing may be incomplete.
//
// The rescan is only sound if fn pins the threads it claims (attaches,
// freezes). An unpinned claimed thread can exit and its id be recycled for a
// fresh thread between passes, and the scan will not offer the newcomer.
func (p *process) ListThreads(fn ThreadFunc, retryUntilStable bool) (bool, error) {
	dir := p.child("task")

	tids := make(map[linux.ThreadID]struct{})
	productive := false

	for pass := 0; pass < 2; pass++ {
		productive = false

		err := p.fs.scanDir(dir, func(name string) error {
			if name == "." || name == ".." {
				return nil
			}

			id, err := strconv.ParseUint(name, 10, 32)
			if err != nil {
				return fmt.Errorf("unexpected entry %q in %s/%s: %w", name, p.fs.mount, dir, err)
			}

			tid := linux.ThreadID(id)
			if _, claimed := tids[tid]; claimed {
				return nil
			}

			claim, err := fn(tid)
			if err != nil {
				return err
			}
			if claim {
				tids[tid] = struct{}{}
				productive = true
			}

			return nil
		})
		if err != nil {
			return false, err
		}

		if productive && retryUntilStable {
			pass = -1
		}
	}

	return productive, nil
}

// Threads returns the ids of all threads of the process in ascending order,
// rescanning until the listing settles. The set is a best-effort snapshot:
// threads spawned or reaped concurrently may be missing or stale.
func (p *process) Threads() ([]linux.ThreadID, error) {
	tids := make([]linux.ThreadID, 0, 8)

	_, err := p.ListThreads(func(tid linux.ThreadID) (bool, error) {
		tids = append(tids, tid)
		return true, nil
	}, true)
	if err != nil {
		return nil, err
	}

	slices.Sort(tids)
	return tids, nil
}

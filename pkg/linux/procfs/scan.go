package procfs

import (
	"strconv"

	"github.com/nkridge/procscope/pkg/linux"
)

// ListProcesses offers every process id present in the procfs root to fn.
// fn errors abort the walk and are returned as is. The listing is a single
// racy snapshot: processes that start or exit concurrently may or may not
// appear.
func (f FS) ListProcesses(fn func(pid linux.ProcessID) error) error {
	return f.scanDir(".", func(name string) error {
		pid, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			// Not a pid directory (self, meminfo, ...).
			return nil
		}

		return fn(linux.ProcessID(pid))
	})
}

package procfs

import (
	"fmt"
	"io"
	"strings"

	"github.com/nkridge/procscope/pkg/linux"
)

////////////////////////////////////////////////////////////////////////////////

// process reads the procfs subtree of a single process. It holds no open
// handles and no state between calls; every method opens, verifies, and
// closes its own handle.
type process struct {
	fs   FS
	pid  linux.ProcessID
	self bool
}

func (p *process) child(name string) string {
	var pid string
	if p.self {
		pid = "self"
	} else {
		pid = fmt.Sprint(p.pid)
	}
	return fmt.Sprintf("%s/%s", pid, name)
}

// GetComm returns the process command name from /proc/<pid>/comm with the
// trailing newline removed. The kernel truncates the name to TASK_COMM_LEN-1
// bytes, so the read is always tiny.
func (p *process) GetComm() (string, error) {
	path := p.child("comm")

	f, err := p.fs.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strings.TrimSuffix(string(buf), "\n"), nil
}

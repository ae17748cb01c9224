package procfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/nkridge/procscope/pkg/linux"
)

////////////////////////////////////////////////////////////////////////////////

// DefaultMount is the canonical procfs mount point.
const DefaultMount = "/proc"

var (
	// ErrNotProcfs means an opened handle does not reside on the proc
	// pseudo-filesystem. Virtual in-kernel filesystems live on anonymous
	// devices with major number 0; anything with a backing block device
	// cannot be procfs.
	ErrNotProcfs = errors.New("not on procfs")

	// ErrFieldNotFound means a status record was read to the end without
	// encountering the requested field.
	ErrFieldNotFound = errors.New("status field not found")
)

////////////////////////////////////////////////////////////////////////////////

// FS is a handle to one procfs mount. The zero value is not usable; build
// one with NewFS or Default. FS carries no state besides the mount location,
// so values are safe to copy and to use from concurrent goroutines.
type FS struct {
	fs    fs.FS
	mount string
}

// NewFS returns an FS reading the procfs instance mounted at mount.
// Useful for containers where the host procfs is bind-mounted elsewhere
// (e.g. /host/proc).
func NewFS(mount string) FS {
	return FS{fs: os.DirFS(mount), mount: mount}
}

// Default returns an FS for the canonical /proc mount.
func Default() FS {
	return NewFS(DefaultMount)
}

// Process returns an accessor for pid inside the default procfs mount.
func Process(pid linux.ProcessID) *process {
	return Default().Process(pid)
}

// Self returns an accessor for the calling process inside the default mount.
func Self() *process {
	return Default().Self()
}

// Process returns an accessor for pid inside this mount. No filesystem
// access happens until one of the accessor's methods is called.
func (f FS) Process(pid linux.ProcessID) *process {
	return &process{fs: f, pid: pid}
}

// Self returns an accessor for the calling process via the mount's self
// symlink.
func (f FS) Self() *process {
	return &process{fs: f, self: true}
}

// open opens the mount-relative path rel read-only and proves the resulting
// handle resides on procfs before any content can be read from it. The full
// path is length-checked before any filesystem access; an over-long path is
// reported, never truncated.
func (f FS) open(rel string) (fs.File, error) {
	if len(f.mount)+1+len(rel) >= unix.PathMax {
		return nil, fmt.Errorf("open %s/%s: %w", f.mount, rel, unix.ENAMETOOLONG)
	}

	file, err := f.fs.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s/%s: %w", f.mount, rel, err)
	}

	if err := ensureProcfs(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s/%s: %w", f.mount, rel, err)
	}

	return file, nil
}

// scanDirChunk bounds how many directory entries are decoded per readdir
// call while streaming a scan.
const scanDirChunk = 128

// scanDir streams the entry names of the mount-relative directory rel into
// fn, verifying the handle resides on procfs before the first entry is read.
// fn errors abort the scan and are returned as is. The handle is closed on
// every exit path.
func (f FS) scanDir(rel string, fn func(name string) error) error {
	file, err := f.open(rel)
	if err != nil {
		return err
	}
	defer file.Close()

	dir, ok := file.(fs.ReadDirFile)
	if !ok {
		return fmt.Errorf("%s/%s: %w", f.mount, rel, unix.ENOTDIR)
	}

	for {
		entries, err := dir.ReadDir(scanDirChunk)
		for _, entry := range entries {
			if err := fn(entry.Name()); err != nil {
				return err
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s/%s: %w", f.mount, rel, err)
		}
	}
}

////////////////////////////////////////////////////////////////////////////////

// ensureProcfs fails unless f is an open handle backed by a virtual
// filesystem, i.e. one whose device has major number 0. A crafted mount or
// an FS pointed at a regular directory tree must not be mistaken for live
// kernel process state.
func ensureProcfs(f fs.File) error {
	if f == nil {
		return fmt.Errorf("verify procfs: nil handle: %w", unix.EINVAL)
	}

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("verify procfs: %w", err)
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fmt.Errorf("verify procfs: no underlying stat for %q: %w", info.Name(), ErrNotProcfs)
	}

	dev := uint64(st.Dev)
	if maj := unix.Major(dev); maj != 0 {
		return fmt.Errorf("verify procfs: %q resides on device %d:%d: %w",
			info.Name(), maj, unix.Minor(dev), ErrNotProcfs)
	}

	return nil
}

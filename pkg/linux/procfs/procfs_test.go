package procfs

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"syscall"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"golang.org/x/sys/unix"

	"github.com/nkridge/procscope/pkg/linux"
)

////////////////////////////////////////////////////////////////////////////////

func statOnDevice(maj, min uint32) *syscall.Stat_t {
	return &syscall.Stat_t{Dev: unix.Mkdev(maj, min)}
}

// procStat mimics a stat from a real procfs mount: an anonymous device with
// major number 0.
func procStat() *syscall.Stat_t {
	return statOnDevice(0, 4)
}

func procFile(data string) *fstest.MapFile {
	return &fstest.MapFile{Mode: 0o444, Data: []byte(data), Sys: procStat()}
}

func procDir() *fstest.MapFile {
	return &fstest.MapFile{Mode: fs.ModeDir | 0o555, Sys: procStat()}
}

// testFS wraps a MapFS into an FS rooted at the default mount. The root
// entry gets procfs-like stats unless the test planted its own.
func testFS(m fstest.MapFS) FS {
	if m["."] == nil {
		m["."] = procDir()
	}
	return FS{fs: m, mount: DefaultMount}
}

////////////////////////////////////////////////////////////////////////////////

func TestEnsureProcfs(t *testing.T) {
	for _, test := range []struct {
		name string
		sys  any
		err  error
	}{
		{name: "proc_device", sys: statOnDevice(0, 4)},
		{name: "zero_device", sys: &syscall.Stat_t{}},
		{name: "block_device", sys: statOnDevice(8, 1), err: ErrNotProcfs},
		{name: "nvme_device", sys: statOnDevice(259, 2), err: ErrNotProcfs},
		{name: "no_stat", sys: nil, err: ErrNotProcfs},
	} {
		t.Run(test.name, func(t *testing.T) {
			m := fstest.MapFS{
				"comm": &fstest.MapFile{Mode: 0o444, Data: []byte("cat\n"), Sys: test.sys},
			}

			f, err := m.Open("comm")
			require.NoError(t, err)
			defer f.Close()

			err = ensureProcfs(f)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

type statFailFile struct{}

func (statFailFile) Stat() (fs.FileInfo, error) { return nil, errors.New("stat exploded") }
func (statFailFile) Read([]byte) (int, error)   { return 0, io.EOF }
func (statFailFile) Close() error               { return nil }

func TestEnsureProcfsBadHandles(t *testing.T) {
	require.ErrorIs(t, ensureProcfs(nil), unix.EINVAL)
	require.ErrorContains(t, ensureProcfs(statFailFile{}), "stat exploded")
}

// Every open handle is verified before any content is read, so a mount that
// is not procfs is rejected no matter which accessor touched it.
func TestRejectsForeignMount(t *testing.T) {
	p := testFS(fstest.MapFS{
		"4021/status": &fstest.MapFile{
			Mode: 0o444,
			Data: []byte("Tgid:\t4021\n"),
			Sys:  statOnDevice(259, 2),
		},
	})

	_, err := p.Process(4021).GetTgid()
	require.ErrorIs(t, err, ErrNotProcfs)
	require.ErrorContains(t, err, "259:2")
}

////////////////////////////////////////////////////////////////////////////////

type explodingFS struct{ t *testing.T }

func (e explodingFS) Open(name string) (fs.File, error) {
	e.t.Fatalf("unexpected filesystem access: open %q", name)
	return nil, nil
}

func TestOverlongMountPath(t *testing.T) {
	f := FS{fs: explodingFS{t}, mount: "/" + strings.Repeat("x", unix.PathMax)}

	_, err := f.Process(1).GetStatusField("Tgid")
	require.ErrorIs(t, err, unix.ENAMETOOLONG)

	_, err = f.Process(1).ListThreads(func(linux.ThreadID) (bool, error) {
		t.Fatal("unexpected callback")
		return false, nil
	}, true)
	require.ErrorIs(t, err, unix.ENAMETOOLONG)
}

func TestMountPathBound(t *testing.T) {
	const rel = "1/comm"
	m := fstest.MapFS{rel: procFile("init\n")}

	// mount + "/" + rel is one byte short of PathMax: still representable.
	longest := FS{fs: m, mount: strings.Repeat("m", unix.PathMax-2-len(rel))}
	comm, err := longest.Process(1).GetComm()
	require.NoError(t, err)
	require.Equal(t, "init", comm)

	over := FS{fs: m, mount: strings.Repeat("m", unix.PathMax-1-len(rel))}
	_, err = over.Process(1).GetComm()
	require.ErrorIs(t, err, unix.ENAMETOOLONG)
}

////////////////////////////////////////////////////////////////////////////////

func TestGetComm(t *testing.T) {
	p := testFS(fstest.MapFS{
		"1234/comm": procFile("worker-7\n"),
		"self/comm": procFile("procscope\n"),
	})

	comm, err := p.Process(1234).GetComm()
	require.NoError(t, err)
	require.Equal(t, "worker-7", comm)

	comm, err = p.Self().GetComm()
	require.NoError(t, err)
	require.Equal(t, "procscope", comm)

	_, err = p.Process(99).GetComm()
	require.ErrorIs(t, err, fs.ErrNotExist)
}

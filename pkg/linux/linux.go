package linux

// ProcessID is a Linux process identifier (a thread group id,
// as reported by getpid(2) and the numeric /proc entries).
type ProcessID uint32

// ThreadID is a Linux task identifier, as reported by gettid(2) and the
// numeric entries of /proc/<pid>/task. A ThreadID is only meaningful
// relative to the process whose task listing produced it; the thread group
// leader has ThreadID == ProcessID.
type ThreadID uint32

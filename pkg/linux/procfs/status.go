package procfs

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nkridge/procscope/pkg/linux"
)

// Fields of interest ("Tgid:\t123") are tiny, but some status lines carry
// long payloads (Groups, Cpus_allowed_list). 8 KiB bounds the scan without
// penalizing the common case.
const (
	statusLineSize    = 1024
	statusLineMaxSize = 8192
)

////////////////////////////////////////////////////////////////////////////////

// statusField returns the value of the first status line named exactly
// field, trimmed of surrounding whitespace. Scanning stops at the first
// match. A status record without the field fails with ErrFieldNotFound.
func (p *process) statusField(field string) (string, error) {
	path := p.child("status")

	f, err := p.fs.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, statusLineSize), statusLineMaxSize)

	for s.Scan() {
		rest, ok := strings.CutPrefix(s.Text(), field)
		if !ok || len(rest) == 0 || rest[0] != ':' {
			continue
		}
		return strings.TrimSpace(rest[1:]), nil
	}

	if err := s.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return "", fmt.Errorf("%s has no %s field: %w", path, field, ErrFieldNotFound)
}

// GetStatusField reads the named status field as a base 10 integer.
// A field whose value is not a plain integer (e.g. the multi-column Uid
// line, or the kB-suffixed memory sizes) fails with the strconv error
// describing it; use GetStatusFieldBytes for the latter.
func (p *process) GetStatusField(field string) (int64, error) {
	raw, err := p.statusField(field)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s field of %s: %w", field, p.child("status"), err)
	}

	return value, nil
}

// GetStatusFieldBytes reads a status field that carries a size with a unit
// suffix (VmRSS, VmSize, ...) and returns it in bytes. A bare integer is
// taken as bytes.
func (p *process) GetStatusFieldBytes(field string) (uint64, error) {
	raw, err := p.statusField(field)
	if err != nil {
		return 0, err
	}

	var scale uint64 = 1

	fields := strings.Fields(raw)
	switch len(fields) {
	case 1:
	case 2:
		switch fields[1] {
		case "B":
			scale = 1 << 0
		case "kB":
			scale = 1 << 10
		case "mB":
			scale = 1 << 20
		case "gB":
			scale = 1 << 30
		case "tB":
			scale = 1 << 40
		default:
			return 0, fmt.Errorf("malformed %s field %q: unsupported unit %s", field, raw, fields[1])
		}
	default:
		return 0, fmt.Errorf("malformed %s field %q: unsupported number of fields", field, raw)
	}

	value, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s field %q: %w", field, raw, err)
	}

	return value * scale, nil
}

// GetTgid returns the thread group id of the process. For a thread id this
// is the id of the process the thread belongs to; for a thread group leader
// GetTgid returns its own id.
func (p *process) GetTgid() (linux.ProcessID, error) {
	return p.statusPID("Tgid")
}

// GetTracerPid returns the id of the process tracing this one, or zero if
// it is not being traced.
func (p *process) GetTracerPid() (linux.ProcessID, error) {
	return p.statusPID("TracerPid")
}

func (p *process) statusPID(field string) (linux.ProcessID, error) {
	value, err := p.GetStatusField(field)
	if err != nil {
		return 0, err
	}

	if value < 0 || value > math.MaxUint32 {
		return 0, fmt.Errorf("out-of-range %s %d: %w", field, value, strconv.ErrRange)
	}

	return linux.ProcessID(value), nil
}

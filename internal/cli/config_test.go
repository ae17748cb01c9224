package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkridge/procscope/pkg/linux/procfs"
)

func TestConfigDefaults(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)

	require.Equal(t, procfs.DefaultMount, c.Procfs)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, 8, c.Snapshot.Concurrency)
	require.NotNil(t, c.Threads.RetryUntilStable)
	require.True(t, *c.Threads.RetryUntilStable)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
procfs: /host/proc
log_level: debug
threads:
  retry_until_stable: false
snapshot:
  concurrency: 2
`), 0o644))

	c, err := loadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "/host/proc", c.Procfs)
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, 2, c.Snapshot.Concurrency)
	require.False(t, *c.Threads.RetryUntilStable)
}

func TestConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))

	c, err := loadConfig(path)
	require.NoError(t, err)

	// Unset keys still get defaults.
	require.Equal(t, "warn", c.LogLevel)
	require.Equal(t, procfs.DefaultMount, c.Procfs)
	require.True(t, *c.Threads.RetryUntilStable)
}

func TestConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "failed to read config")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err = loadConfig(path)
	require.ErrorContains(t, err, "failed to parse config")
}

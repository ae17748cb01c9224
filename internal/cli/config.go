package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nkridge/procscope/pkg/linux/procfs"
)

type ThreadsConfig struct {
	// Keep rescanning the task directory until the thread set settles.
	// Disabling caps every listing at two passes.
	RetryUntilStable *bool `yaml:"retry_until_stable"`
}

type SnapshotConfig struct {
	// Number of processes resolved concurrently.
	Concurrency int `yaml:"concurrency"`
}

type Config struct {
	// Procfs mount point to inspect. Useful in containers where the host
	// procfs is bind-mounted elsewhere (e.g. /host/proc).
	Procfs string `yaml:"procfs"`

	// One of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Threads  ThreadsConfig  `yaml:"threads,omitempty"`
	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`
}

func defaultValue[T comparable](ptr *T, value T) {
	var zero T
	if *ptr == zero {
		*ptr = value
	}
}

func defaultPointer[T any](ptr **T, value T) {
	if *ptr == nil {
		*ptr = &value
	}
}

func (c *Config) FillDefault() {
	defaultValue(&c.Procfs, procfs.DefaultMount)
	defaultValue(&c.LogLevel, "info")
	defaultValue(&c.Snapshot.Concurrency, 8)
	defaultPointer(&c.Threads.RetryUntilStable, true)
}

func loadConfig(path string) (*Config, error) {
	c := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	c.FillDefault()
	return c, nil
}

package cli

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nkridge/procscope/pkg/linux"
	"github.com/nkridge/procscope/pkg/linux/procfs"
)

////////////////////////////////////////////////////////////////////////////////

// App carries the state shared by every command: the resolved config, the
// logger, and the procfs mount under inspection.
type App struct {
	conf   *Config
	logger *zap.Logger
	fs     procfs.FS
}

func newApp(conf *Config) (*App, error) {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger, err := newLogger(level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &App{
		conf:   conf,
		logger: logger,
		fs:     procfs.NewFS(conf.Procfs),
	}, nil
}

func (a *App) Shutdown() {
	_ = a.logger.Sync()
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

func (a *App) FS() procfs.FS {
	return a.fs
}

////////////////////////////////////////////////////////////////////////////////

func parsePid(arg string) (linux.ProcessID, error) {
	pid, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad pid %q: %w", arg, err)
	}
	return linux.ProcessID(pid), nil
}

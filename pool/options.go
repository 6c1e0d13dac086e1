package pool

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/internal/cpu"
)

// Option is a functional option for configuring a ThreadPool.
type Option func(*config)

type config struct {
	workers int
	pinned  bool
	logger  *zap.Logger

	// pin binds the calling worker to a core and returns the undo func.
	pin func(workerID int) (func(), error)
}

func defaultConfig() *config {
	return &config{
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
		pin:     cpu.SetupWorkerAffinity,
	}
}

// WithWorkers sets the number of workers.
// If not specified, defaults to runtime.GOMAXPROCS(0). A non-positive count
// makes New fail with ErrInvalidWorkerCount.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// WithPinnedWorkers locks every worker to an OS thread and pins the thread
// to a core.
func WithPinnedWorkers(pinned bool) Option {
	return func(cfg *config) {
		cfg.pinned = pinned
	}
}

// WithLogger sets the logger used for lifecycle and task failure events.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

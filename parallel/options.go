package parallel

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/internal/backend"
)

// BackendKind names an execution backend.
type BackendKind = backend.Kind

// Available backends.
const (
	BackendAuto       = backend.KindAuto
	BackendPinned     = backend.KindPinned
	BackendGoroutine  = backend.KindGoroutine
	BackendPool       = backend.KindPool
	BackendSequential = backend.KindSequential
)

// ErrUnknownBackend is returned for backend names that do not exist.
var ErrUnknownBackend = backend.ErrUnknownBackend

// ParseBackend maps a backend name such as "pool" or "goroutine" to its
// kind. The empty string selects BackendAuto.
func ParseBackend(name string) (BackendKind, error) {
	return backend.ParseKind(name)
}

// Backends lists every concrete backend kind.
func Backends() []BackendKind {
	return backend.Kinds()
}

// Option is a functional option for configuring an Executor.
type Option func(*config)

type config struct {
	backend    BackendKind
	numThreads int
	maxWorkers int
	pin        *bool
	schedule   Schedule
	chunk      int
	logger     *zap.Logger
}

func defaultConfig() *config {
	procs := runtime.GOMAXPROCS(0)
	return &config{
		backend:    BackendAuto,
		numThreads: procs,
		maxWorkers: procs,
		schedule:   ScheduleStatic,
		chunk:      1,
		logger:     zap.NewNop(),
	}
}

// WithBackend requests a specific backend. Defaults to BackendAuto.
func WithBackend(kind BackendKind) Option {
	return func(cfg *config) {
		cfg.backend = kind
	}
}

// WithNumThreads sets how many partitions loops are split into.
// Defaults to runtime.GOMAXPROCS(0).
func WithNumThreads(n int) Option {
	return func(cfg *config) {
		cfg.numThreads = n
	}
}

// WithMaxWorkers sets how many workers the backend runs.
// Defaults to runtime.GOMAXPROCS(0).
func WithMaxWorkers(n int) Option {
	return func(cfg *config) {
		cfg.maxWorkers = n
	}
}

// WithPinnedWorkers(true) selects the pinned backend when no backend was
// requested explicitly. WithPinnedWorkers(false) keeps BackendAuto from
// choosing it.
func WithPinnedWorkers(pinned bool) Option {
	return func(cfg *config) {
		cfg.pin = &pinned
	}
}

// WithSchedule sets the default schedule of For and ForRange.
func WithSchedule(s Schedule) Option {
	return func(cfg *config) {
		cfg.schedule = s
	}
}

// WithChunkSize sets the default chunk size of dynamic scheduling.
// Defaults to 1.
func WithChunkSize(n int) Option {
	return func(cfg *config) {
		cfg.chunk = n
	}
}

// WithLogger sets the logger used by the executor and its backend.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// ForOption adjusts a single call.
type ForOption func(*forConfig)

type forConfig struct {
	threads  int
	schedule Schedule
	chunk    int // 0 means auto
	err      error
}

func (fc *forConfig) fail(err error) {
	if fc.err == nil {
		fc.err = err
	}
}

// Threads overrides the number of partitions for one call.
func Threads(n int) ForOption {
	return func(fc *forConfig) {
		if n <= 0 {
			fc.fail(usageError("Threads", n, ErrInvalidThreadCount))
			return
		}
		fc.threads = n
	}
}

// Static selects static scheduling for one call.
func Static() ForOption {
	return func(fc *forConfig) {
		fc.schedule = ScheduleStatic
	}
}

// Dynamic selects dynamic scheduling with the given chunk size. A chunk of
// zero sizes chunks automatically.
func Dynamic(chunk int) ForOption {
	return func(fc *forConfig) {
		if chunk < 0 {
			fc.fail(usageError("Dynamic", chunk, ErrInvalidChunkSize))
			return
		}
		fc.schedule = ScheduleDynamic
		fc.chunk = chunk
	}
}

// ChunkSize sets the dynamic chunk size for one call without changing the
// schedule.
func ChunkSize(n int) ForOption {
	return func(fc *forConfig) {
		if n <= 0 {
			fc.fail(usageError("ChunkSize", n, ErrInvalidChunkSize))
			return
		}
		fc.chunk = n
	}
}

// Package backend holds the execution strategies a parallel region can run
// on. A Backend only knows how to run a team of rank bodies; partitioning
// work into ranks is done by the caller, so every backend produces the same
// partitions for the same input.
package backend

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/internal/cpu"
)

// Kind names an execution backend.
type Kind int

const (
	// KindAuto picks the best available backend at construction time.
	KindAuto Kind = iota
	// KindPinned runs ranks on pool workers locked to OS threads and pinned
	// to cores.
	KindPinned
	// KindGoroutine runs each rank on a goroutine scheduled by the runtime.
	KindGoroutine
	// KindPool runs ranks on the native ThreadPool.
	KindPool
	// KindSequential runs every rank on the calling goroutine.
	KindSequential
)

var (
	// ErrUnknownBackend is returned for backend names or kinds that do not
	// exist.
	ErrUnknownBackend = errors.New("backend: unknown backend")

	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("backend: closed")
)

var kindNames = map[Kind]string{
	KindAuto:       "auto",
	KindPinned:     "pinned",
	KindGoroutine:  "goroutine",
	KindPool:       "pool",
	KindSequential: "sequential",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a backend name (case insensitive) to its Kind. The empty
// string means KindAuto.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindAuto, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindAuto, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Kinds lists every concrete backend kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindPinned, KindGoroutine, KindPool, KindSequential}
}

// Body runs one rank of a team. The context carries the rank's WorkerInfo.
type Body func(ctx context.Context, rank int) error

// Backend executes teams of rank bodies.
type Backend interface {
	// Kind reports which strategy this is.
	Kind() Kind

	// Name is a human readable label, e.g. for logs and benchmark tables.
	Name() string

	// MaxWorkers is the number of ranks that can run at the same time.
	MaxWorkers() int

	// Run calls body once for every rank in [0, team) and returns once all
	// of them returned. A failing rank does not stop the others; every
	// rank error is returned, combined. Panics are returned as
	// *types.PanicError.
	Run(ctx context.Context, team int, body Body) error

	// Close releases the backend's workers. It is idempotent.
	Close()
}

// Config carries construction parameters shared by all backends.
type Config struct {
	// Workers bounds the number of ranks running at once. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int

	// DisablePinning keeps KindAuto from resolving to KindPinned.
	DisablePinning bool

	Logger *zap.Logger
}

// Select resolves requested into a concrete Kind. Explicit kinds are
// returned unchanged. For KindAuto the preference order is pinned pool,
// then runtime goroutines, then the plain pool, then sequential execution.
func Select(requested Kind, probe cpu.Probe, workers int) Kind {
	if requested != KindAuto {
		return requested
	}
	switch {
	case probe.AffinitySupported && probe.Parallel():
		return KindPinned
	case probe.Parallel():
		return KindGoroutine
	case workers > 1:
		return KindPool
	default:
		return KindSequential
	}
}

// New builds the backend for kind. KindAuto is resolved against the current
// process first.
func New(kind Kind, cfg Config) (Backend, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	probe := cpu.Detect()
	if cfg.DisablePinning {
		probe.AffinitySupported = false
	}
	resolved := Select(kind, probe, cfg.Workers)

	var (
		b   Backend
		err error
	)
	switch resolved {
	case KindPinned:
		b, err = newPoolBackend(cfg, true)
	case KindPool:
		b, err = newPoolBackend(cfg, false)
	case KindGoroutine:
		b = newGoroutineBackend(cfg)
	case KindSequential:
		b = newSequentialBackend()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", resolved, err)
	}

	cfg.Logger.Debug("backend ready",
		zap.Stringer("requested", kind),
		zap.Stringer("selected", resolved),
		zap.Int("max_workers", b.MaxWorkers()),
	)
	return b, nil
}

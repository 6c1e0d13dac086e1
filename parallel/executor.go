package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/utkarsh5026/parx/internal/backend"
	"github.com/utkarsh5026/parx/internal/types"
	"github.com/utkarsh5026/parx/pool"
)

// Executor runs parallel regions on one backend. It is safe for concurrent
// use; independent calls share the backend's workers.
type Executor struct {
	backend backend.Backend
	logger  *zap.Logger

	numThreads atomic.Int64
	schedule   Schedule
	chunk      int

	// regions reserves workers for Parallel teams, which must have every
	// rank running at once.
	regions *semaphore.Weighted

	critical  Critical
	closed    atomic.Bool
	closeOnce sync.Once
}

// New validates the options, selects a backend and starts its workers.
// A backend that cannot start, for instance pinned workers on a platform
// without thread affinity, is reported as an error.
func New(opts ...Option) (*Executor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var err error
	if cfg.numThreads <= 0 {
		err = multierr.Append(err, usageError("WithNumThreads", cfg.numThreads, ErrInvalidThreadCount))
	}
	if cfg.maxWorkers <= 0 {
		err = multierr.Append(err, usageError("WithMaxWorkers", cfg.maxWorkers, ErrInvalidThreadCount))
	}
	if cfg.chunk <= 0 {
		err = multierr.Append(err, usageError("WithChunkSize", cfg.chunk, ErrInvalidChunkSize))
	}
	if err != nil {
		return nil, err
	}

	kind := cfg.backend
	bcfg := backend.Config{
		Workers: cfg.maxWorkers,
		Logger:  cfg.logger,
	}
	if cfg.pin != nil {
		if *cfg.pin && kind == BackendAuto {
			kind = BackendPinned
		}
		bcfg.DisablePinning = !*cfg.pin
	}

	b, err := backend.New(kind, bcfg)
	if err != nil {
		return nil, err
	}

	e := &Executor{
		backend:  b,
		logger:   cfg.logger.Named("executor"),
		regions:  semaphore.NewWeighted(int64(b.MaxWorkers())),
		schedule: cfg.schedule,
		chunk:    cfg.chunk,
	}
	e.numThreads.Store(int64(cfg.numThreads))

	e.logger.Debug("executor ready",
		zap.Stringer("backend", b.Kind()),
		zap.Int("num_threads", cfg.numThreads),
		zap.Int("max_workers", b.MaxWorkers()),
		zap.Stringer("schedule", cfg.schedule),
	)
	return e, nil
}

// Close stops the backend's workers after the queued work finished. It is
// idempotent. Calls made after Close fail with ErrExecutorClosed.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		e.backend.Close()
		e.logger.Debug("executor closed")
	})
}

// NumThreads returns the number of partitions used by calls that do not
// pass Threads.
func (e *Executor) NumThreads() int {
	return int(e.numThreads.Load())
}

// SetNumThreads changes the partition count of subsequent calls. It never
// resizes the backend; MaxWorkers stays fixed.
func (e *Executor) SetNumThreads(n int) error {
	if n <= 0 {
		return usageError("SetNumThreads", n, ErrInvalidThreadCount)
	}
	e.numThreads.Store(int64(n))
	return nil
}

// MaxWorkers is the number of ranks the backend can run at the same time.
func (e *Executor) MaxWorkers() int {
	return e.backend.MaxWorkers()
}

// Backend reports the backend selected when the executor was built.
func (e *Executor) Backend() BackendKind {
	return e.backend.Kind()
}

// PoolStats returns the worker pool counters when the backend is pool based.
func (e *Executor) PoolStats() (pool.Stats, bool) {
	pb, ok := e.backend.(interface{ Pool() *pool.ThreadPool })
	if !ok {
		return pool.Stats{}, false
	}
	return pb.Pool().Stats(), true
}

// Critical runs fn while holding the executor's shared mutex.
func (e *Executor) Critical(fn func()) {
	e.critical.Do(fn)
}

// plan resolves the options of one call.
func (e *Executor) plan(ctx context.Context, opts []ForOption) (forConfig, error) {
	fc := forConfig{
		threads:  e.NumThreads(),
		schedule: e.schedule,
		chunk:    e.chunk,
	}
	for _, opt := range opts {
		opt(&fc)
	}
	if fc.err != nil {
		return fc, fc.err
	}
	if e.closed.Load() {
		return fc, ErrExecutorClosed
	}
	if types.InRegion(ctx) {
		fc.threads = 1
	}
	return fc, nil
}

// runTeam runs body once per rank. A team of one runs inline on the caller.
func (e *Executor) runTeam(ctx context.Context, team int, body func(ctx context.Context, rank int) error) error {
	parent, _ := types.WorkerFrom(ctx)

	if team <= 1 {
		rctx := types.WithWorker(ctx, types.WorkerInfo{
			ID:       parent.ID,
			Rank:     0,
			TeamSize: 1,
			Level:    parent.Level,
		})
		return body(rctx, 0)
	}

	level := parent.Level + 1
	err := e.backend.Run(ctx, team, func(rctx context.Context, rank int) error {
		info, _ := types.WorkerFrom(rctx)
		info.Level = level
		return body(types.WithWorker(rctx, info), rank)
	})
	if errors.Is(err, backend.ErrClosed) {
		return multierr.Append(err, ErrExecutorClosed)
	}
	return err
}

// runRange calls fn for r, turning a failure or panic into a *TaskError.
func runRange(ctx context.Context, rank int, r Range, fn func(ctx context.Context, r Range) error) error {
	err := types.Recover(func() error {
		return fn(ctx, r)
	})
	if err != nil {
		return &TaskError{Rank: rank, Range: r, Err: err}
	}
	return nil
}

// forEachRange distributes [start, end) according to fc and calls fn once
// per partition (static) or per claimed chunk (dynamic).
func (e *Executor) forEachRange(ctx context.Context, start, end int, fc forConfig, fn func(ctx context.Context, r Range) error) error {
	total := end - start
	if total <= 0 {
		return nil
	}

	threads := fc.threads
	if threads == 1 || total < threads {
		return e.runTeam(ctx, 1, func(rctx context.Context, rank int) error {
			return runRange(rctx, rank, Range{Start: start, End: end}, fn)
		})
	}

	if fc.schedule == ScheduleDynamic {
		return e.forEachChunk(ctx, start, end, fc, fn)
	}

	parts := Partition(start, end, threads)
	return e.runTeam(ctx, threads, func(rctx context.Context, rank int) error {
		return runRange(rctx, rank, parts[rank], fn)
	})
}

func (e *Executor) forEachChunk(ctx context.Context, start, end int, fc forConfig, fn func(ctx context.Context, r Range) error) error {
	total := end - start
	chunk := fc.chunk
	if chunk == 0 {
		chunk = autoChunk(total, fc.threads)
	}
	team := min(fc.threads, (total+chunk-1)/chunk)

	var cursor atomic.Int64
	cursor.Store(int64(start))

	return e.runTeam(ctx, team, func(rctx context.Context, rank int) error {
		for {
			s := int(cursor.Add(int64(chunk)) - int64(chunk))
			if s >= end {
				return nil
			}
			r := Range{Start: s, End: min(s+chunk, end)}
			if err := runRange(rctx, rank, r, fn); err != nil {
				return err
			}
		}
	})
}

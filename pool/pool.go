package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/parx/internal/types"
)

// task is one queued unit of work. It completes its own Future and reports
// the outcome back to the worker for accounting.
type task func(ctx context.Context) error

// ThreadPool is a fixed set of workers consuming a FIFO queue.
// It is safe for concurrent use.
type ThreadPool struct {
	workers int
	pinned  bool
	pin     func(workerID int) (func(), error)
	logger  *zap.Logger

	mu      sync.Mutex
	work    *sync.Cond // queue became non-empty or the pool stopped
	drained *sync.Cond // queue empty and nothing executing
	queue   []task
	active  int
	stopped bool

	wg           sync.WaitGroup
	shutdownOnce sync.Once

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64

	failureLog rate.Sometimes
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Workers   int
	Queued    int
	Active    int
	Submitted int64
	Completed int64
	Failed    int64
	Panicked  int64
}

// New starts a pool and returns it once every worker is running.
//
// If a worker cannot start (for pinned workers, if its thread cannot be
// pinned), the workers already started are shut down and the start errors
// are returned.
func New(opts ...Option) (*ThreadPool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.workers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, cfg.workers)
	}

	p := &ThreadPool{
		workers:    cfg.workers,
		pinned:     cfg.pinned,
		pin:        cfg.pin,
		logger:     cfg.logger.Named("pool"),
		queue:      make([]task, 0, cfg.workers),
		failureLog: rate.Sometimes{First: 3, Interval: time.Second},
	}
	p.work = sync.NewCond(&p.mu)
	p.drained = sync.NewCond(&p.mu)

	started := make(chan error, p.workers)
	for id := range p.workers {
		p.wg.Add(1)
		go p.worker(id, started)
	}

	var startErr error
	for range p.workers {
		startErr = multierr.Append(startErr, <-started)
	}
	if startErr != nil {
		p.Shutdown()
		return nil, fmt.Errorf("pool: start workers: %w", startErr)
	}

	p.logger.Debug("pool started",
		zap.Int("workers", p.workers),
		zap.Bool("pinned", p.pinned),
	)
	return p, nil
}

// Enqueue submits fn and returns a Future that resolves once fn returned.
// It fails with ErrPoolStopped once Shutdown has begun.
func (p *ThreadPool) Enqueue(fn func(ctx context.Context) error) (*Future[struct{}], error) {
	return Submit(p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

// Submit queues fn on p and returns a typed Future for its result.
func Submit[R any](p *ThreadPool, fn func(ctx context.Context) (R, error)) (*Future[R], error) {
	f := types.NewFuture[R]()
	t := func(ctx context.Context) error {
		v, err := types.RecoverValue(func() (R, error) {
			return fn(ctx)
		})
		f.Complete(v, err)
		return err
	}

	if err := p.push(t); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *ThreadPool) push(t task) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolStopped
	}
	p.queue = append(p.queue, t)
	p.submitted.Add(1)
	p.mu.Unlock()

	p.work.Signal()
	return nil
}

// WaitAll blocks until the queue is empty and no task is executing.
func (p *ThreadPool) WaitAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) > 0 || p.active > 0 {
		p.drained.Wait()
	}
}

// Size returns the number of workers.
func (p *ThreadPool) Size() int {
	return p.workers
}

// Pinned reports whether workers are pinned to cores.
func (p *ThreadPool) Pinned() bool {
	return p.pinned
}

// Shutdown stops accepting work, lets the workers drain every queued task
// and waits for them to exit. It is safe to call more than once. It must
// not be called from inside a task.
func (p *ThreadPool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		pending := len(p.queue)
		p.mu.Unlock()
		p.work.Broadcast()

		p.wg.Wait()
		p.logger.Debug("pool stopped",
			zap.Int("drained", pending),
			zap.Int64("completed", p.completed.Load()),
		)
	})
}

// Stats returns a snapshot of the pool counters.
func (p *ThreadPool) Stats() Stats {
	p.mu.Lock()
	queued, active := len(p.queue), p.active
	p.mu.Unlock()

	return Stats{
		Workers:   p.workers,
		Queued:    queued,
		Active:    active,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
	}
}

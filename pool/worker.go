package pool

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/utkarsh5026/parx/internal/types"
)

// WorkerID returns the identity of the pool worker running the task that
// received ctx.
func WorkerID(ctx context.Context) (int, bool) {
	info, ok := types.WorkerFrom(ctx)
	if !ok {
		return 0, false
	}
	return info.ID, true
}

// worker reports its start result on started exactly once, then serves the
// queue until the pool stops and the queue is empty.
func (p *ThreadPool) worker(id int, started chan<- error) {
	defer p.wg.Done()

	if p.pinned {
		cleanup, err := p.pin(id)
		if err != nil {
			started <- err
			return
		}
		defer cleanup()
	}
	started <- nil

	ctx := types.WithWorker(context.Background(), types.WorkerInfo{ID: id})
	for {
		t, ok := p.next()
		if !ok {
			return
		}
		p.execute(ctx, id, t)
		p.finish()
	}
}

// next pops the oldest task, blocking while the queue is empty. It returns
// false once the pool stopped and nothing is left to drain.
func (p *ThreadPool) next() (task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.stopped {
		p.work.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}

	t := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	p.active++
	return t, true
}

func (p *ThreadPool) finish() {
	p.mu.Lock()
	p.active--
	idle := p.active == 0 && len(p.queue) == 0
	p.mu.Unlock()

	if idle {
		p.drained.Broadcast()
	}
}

func (p *ThreadPool) execute(ctx context.Context, id int, t task) {
	err := t(ctx)
	p.completed.Add(1)
	if err == nil {
		return
	}

	p.failed.Add(1)
	var pe *PanicError
	if errors.As(err, &pe) {
		p.panicked.Add(1)
	}
	p.failureLog.Do(func() {
		p.logger.Debug("task failed",
			zap.Int("worker", id),
			zap.Bool("panic", pe != nil),
			zap.Error(err),
		)
	})
}

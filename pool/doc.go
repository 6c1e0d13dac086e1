// Package pool provides ThreadPool, a fixed-size pool of worker goroutines
// fed from a single FIFO queue.
//
// Workers are started by New and live until Shutdown. Each worker waits on a
// condition variable while the queue is empty, pops one task under the queue
// lock and runs it outside the lock. A task's error or panic is delivered
// only through the Future returned for it; the worker keeps serving.
//
// # Basic Usage
//
//	p, err := pool.New(pool.WithWorkers(4))
//	if err != nil {
//	    return err
//	}
//	defer p.Shutdown()
//
//	f, err := pool.Submit(p, func(ctx context.Context) (int, error) {
//	    return 6 * 7, nil
//	})
//	if err != nil {
//	    return err // pool already stopped
//	}
//	answer, err := f.Get()
//
// # Pinned Workers
//
// WithPinnedWorkers(true) locks every worker to its own OS thread and pins
// that thread to a core. A worker that cannot be pinned makes New fail; the
// pool never silently degrades to unpinned workers.
//
// # Worker Identity
//
// The context handed to a task carries the identity of the worker running
// it. WorkerID extracts it.
package pool

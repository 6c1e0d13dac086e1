// Package parallel runs loops, reductions and small parallel algorithms on a
// selectable execution backend.
//
// An Executor owns its backend (and the worker pool behind it, if any).
// Create one with New and release it with Close:
//
//	e, err := parallel.New(parallel.WithNumThreads(8))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	err = e.For(ctx, 0, len(xs), func(ctx context.Context, i int) error {
//	    xs[i] *= 2
//	    return nil
//	})
//
// # Scheduling
//
// Static scheduling (the default) splits [start, end) into exactly
// NumThreads contiguous partitions whose sizes differ by at most one; the
// first total%threads partitions get the extra element. The partitions only
// depend on the range and the thread count, never on the backend, so every
// backend computes the same partial results for a reduction.
//
// Dynamic scheduling hands out chunks from a shared atomic cursor:
//
//	err = e.For(ctx, 0, n, body, parallel.Dynamic(64))
//
// # Regions
//
// Every closure receives a context describing the region it runs in.
// ThreadNum, TeamSize, ThreadID and InParallel read it. A region started from
// inside another region runs sequentially on the calling goroutine.
//
// # Errors
//
// A failing partition stops at its first error while the other partitions
// keep going. The call returns every partition error combined; each is a
// *TaskError naming the rank and range, and panics surface as *PanicError.
package parallel

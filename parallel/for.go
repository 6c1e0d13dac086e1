package parallel

import "context"

// For calls fn once for every index in [start, end) and returns after all
// calls returned. An empty range is a no-op.
//
// With fewer indices than threads, or a single thread, the loop runs
// sequentially on the calling goroutine. Otherwise indices are distributed
// by the executor's schedule, which Static, Dynamic and ChunkSize override
// for this call.
func (e *Executor) For(ctx context.Context, start, end int, fn func(ctx context.Context, i int) error, opts ...ForOption) error {
	fc, err := e.plan(ctx, opts)
	if err != nil {
		return err
	}
	return e.forEachRange(ctx, start, end, fc, func(ctx context.Context, r Range) error {
		for i := r.Start; i < r.End; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// ForRange is For with a body that receives whole sub-ranges: one call per
// static partition, or one per claimed chunk under dynamic scheduling.
func (e *Executor) ForRange(ctx context.Context, start, end int, fn func(ctx context.Context, r Range) error, opts ...ForOption) error {
	fc, err := e.plan(ctx, opts)
	if err != nil {
		return err
	}
	return e.forEachRange(ctx, start, end, fc, fn)
}

// Parallel runs fn once on every rank of a team of NumThreads ranks, capped
// at MaxWorkers so that all ranks run at the same time and may meet at a
// Barrier sized TeamSize(ctx). The whole team is reserved before any rank
// starts, so concurrent Parallel calls never split the workers between
// partial teams; a call waits until enough workers are free or ctx is done.
func (e *Executor) Parallel(ctx context.Context, fn func(ctx context.Context) error, opts ...ForOption) error {
	fc, err := e.plan(ctx, opts)
	if err != nil {
		return err
	}
	team := min(fc.threads, e.MaxWorkers())
	if team > 1 {
		if err := e.regions.Acquire(ctx, int64(team)); err != nil {
			return err
		}
		defer e.regions.Release(int64(team))
	}
	return e.runTeam(ctx, team, func(rctx context.Context, rank int) error {
		return runRange(rctx, rank, Range{Start: rank, End: rank + 1}, func(ctx context.Context, _ Range) error {
			return fn(ctx)
		})
	})
}

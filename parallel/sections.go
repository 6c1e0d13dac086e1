package parallel

import (
	"context"
	"sync/atomic"

	"go.uber.org/multierr"
)

// Sections runs independent closures concurrently and returns once all of
// them returned. Up to NumThreads ranks claim sections in order from a
// shared cursor. Every section runs even if another one failed; failures
// are returned combined, each as a *TaskError whose Range holds the section
// index.
func (e *Executor) Sections(ctx context.Context, sections ...func(ctx context.Context) error) error {
	fc, err := e.plan(ctx, nil)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		return nil
	}

	var next atomic.Int64
	team := min(fc.threads, len(sections))
	return e.runTeam(ctx, team, func(rctx context.Context, rank int) error {
		var errs error
		for {
			i := int(next.Add(1) - 1)
			if i >= len(sections) {
				return errs
			}
			errs = multierr.Append(errs, runRange(rctx, rank, Range{Start: i, End: i + 1}, func(ctx context.Context, _ Range) error {
				return sections[i](ctx)
			}))
		}
	})
}

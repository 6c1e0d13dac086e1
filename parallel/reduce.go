package parallel

import "context"

// Reduce folds transform(i) for every i in [start, end) with combine.
//
// Reductions always use static partitions, whatever the schedule options
// say: each partition folds its indices in order starting from identity,
// then the partial results are combined on the caller in partition order.
// The result therefore only depends on the range and the thread count, so
// non-associative operations such as floating point addition give the same
// answer on every backend. An empty range returns identity without calling
// transform or combine.
func Reduce[T any](
	ctx context.Context,
	e *Executor,
	start, end int,
	identity T,
	combine func(a, b T) T,
	transform func(ctx context.Context, i int) (T, error),
	opts ...ForOption,
) (T, error) {
	fc, err := e.plan(ctx, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	total := end - start
	if total <= 0 {
		return identity, nil
	}

	parts := 1
	if fc.threads > 1 && total >= fc.threads {
		parts = fc.threads
	}
	fc.threads = parts
	fc.schedule = ScheduleStatic

	partials := make([]T, parts)
	err = e.forEachRange(ctx, start, end, fc, func(ctx context.Context, r Range) error {
		acc := identity
		for i := r.Start; i < r.End; i++ {
			v, err := transform(ctx, i)
			if err != nil {
				return err
			}
			acc = combine(acc, v)
		}
		partials[rankOf(ctx)] = acc
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	result := partials[0]
	for _, p := range partials[1:] {
		result = combine(result, p)
	}
	return result, nil
}

// ReduceSlice folds items with combine, starting every partition from
// identity.
func ReduceSlice[T any](ctx context.Context, e *Executor, items []T, identity T, combine func(a, b T) T, opts ...ForOption) (T, error) {
	return Reduce(ctx, e, 0, len(items), identity, combine, func(_ context.Context, i int) (T, error) {
		return items[i], nil
	}, opts...)
}

// TransformReduceSlice maps every item with transform and folds the results
// with combine.
func TransformReduceSlice[E, T any](
	ctx context.Context,
	e *Executor,
	items []E,
	identity T,
	combine func(a, b T) T,
	transform func(E) T,
	opts ...ForOption,
) (T, error) {
	return Reduce(ctx, e, 0, len(items), identity, combine, func(_ context.Context, i int) (T, error) {
		return transform(items[i]), nil
	}, opts...)
}

package parallel

import (
	"context"
	"slices"
	"sync/atomic"
)

// Map applies fn to every item and returns the results in input order.
func Map[E, R any](ctx context.Context, e *Executor, items []E, fn func(ctx context.Context, item E) (R, error), opts ...ForOption) ([]R, error) {
	out := make([]R, len(items))
	err := e.For(ctx, 0, len(items), func(ctx context.Context, i int) error {
		v, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		out[i] = v
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns the lowest index whose item satisfies pred, or -1. The
// answer is the same as a sequential scan; partitions stop early once a
// lower match is known.
func Find[T any](ctx context.Context, e *Executor, items []T, pred func(T) bool, opts ...ForOption) (int, error) {
	n := len(items)
	var best atomic.Int64
	best.Store(int64(n))

	err := e.ForRange(ctx, 0, n, func(_ context.Context, r Range) error {
		for i := r.Start; i < r.End && int64(i) < best.Load(); i++ {
			if !pred(items[i]) {
				continue
			}
			for {
				cur := best.Load()
				if int64(i) >= cur || best.CompareAndSwap(cur, int64(i)) {
					return nil
				}
			}
		}
		return nil
	}, opts...)
	if err != nil {
		return -1, err
	}

	if idx := int(best.Load()); idx < n {
		return idx, nil
	}
	return -1, nil
}

// Sort sorts items in place with cmp, keeping equal elements in their
// original order. Static partitions are sorted in parallel, then merged
// pairwise, in parallel, until one run is left.
func Sort[T any](ctx context.Context, e *Executor, items []T, cmp func(a, b T) int, opts ...ForOption) error {
	runs, err := sortRuns(ctx, e, items, cmp, opts)
	if err != nil || len(runs) <= 1 {
		return err
	}

	src := items
	dst := make([]T, len(items))
	for len(runs) > 1 {
		pairs := (len(runs) + 1) / 2
		merged := make([]Range, pairs)
		err := e.For(ctx, 0, pairs, func(_ context.Context, p int) error {
			left := runs[2*p]
			if 2*p+1 == len(runs) {
				copy(dst[left.Start:left.End], src[left.Start:left.End])
				merged[p] = left
				return nil
			}
			right := runs[2*p+1]
			mergeStable(dst[left.Start:right.End], src[left.Start:left.End], src[right.Start:right.End], cmp)
			merged[p] = Range{Start: left.Start, End: right.End}
			return nil
		}, Threads(pairs))
		if err != nil {
			return err
		}
		runs = merged
		src, dst = dst, src
	}

	if &src[0] != &items[0] {
		copy(items, src)
	}
	return nil
}

// PartialSort rearranges items so that items[:k] holds the k smallest
// elements in sorted order, equal elements keeping their original order.
// The order of items[k:] is unspecified.
func PartialSort[T any](ctx context.Context, e *Executor, items []T, k int, cmp func(a, b T) int, opts ...ForOption) error {
	if k <= 0 {
		return nil
	}
	if k >= len(items) {
		return Sort(ctx, e, items, cmp, opts...)
	}

	runs, err := sortRuns(ctx, e, items, cmp, opts)
	if err != nil || len(runs) <= 1 {
		return err
	}

	// k-way selection from the run heads; ties go to the earlier run.
	out := make([]T, 0, len(items))
	heads := make([]int, len(runs))
	for i, r := range runs {
		heads[i] = r.Start
	}
	for len(out) < k {
		pick := -1
		for i, r := range runs {
			if heads[i] == r.End {
				continue
			}
			if pick < 0 || cmp(items[heads[i]], items[heads[pick]]) < 0 {
				pick = i
			}
		}
		out = append(out, items[heads[pick]])
		heads[pick]++
	}
	for i, r := range runs {
		out = append(out, items[heads[i]:r.End]...)
	}

	copy(items, out)
	return nil
}

// sortRuns stable-sorts every static partition of items and returns the
// partitions, in order.
func sortRuns[T any](ctx context.Context, e *Executor, items []T, cmp func(a, b T) int, opts []ForOption) ([]Range, error) {
	fc, err := e.plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	n := len(items)
	if n < 2 {
		return nil, nil
	}

	parts := fc.threads
	if parts <= 1 || n < parts {
		slices.SortStableFunc(items, cmp)
		return []Range{{Start: 0, End: n}}, nil
	}

	runs := Partition(0, n, parts)
	err = e.ForRange(ctx, 0, n, func(_ context.Context, r Range) error {
		slices.SortStableFunc(items[r.Start:r.End], cmp)
		return nil
	}, slices.Concat(opts, []ForOption{Static(), Threads(parts)})...)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// mergeStable merges the sorted runs a and b into dst, taking from a on
// ties.
func mergeStable[T any](dst, a, b []T, cmp func(a, b T) int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}

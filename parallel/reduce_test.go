package parallel

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(a, b int64) int64 { return a + b }

func TestReduce_Sum(t *testing.T) {
	runBackendTest(t, func(t *testing.T, e *Executor) {
		for _, n := range []int64{1, 100, 1_000_000} {
			got, err := Reduce(context.Background(), e, 1, int(n)+1, 0, add,
				func(ctx context.Context, i int) (int64, error) {
					return int64(i), nil
				})
			require.NoError(t, err)
			assert.Equal(t, n*(n+1)/2, got, "N=%d", n)
		}
	})
}

func TestReduce_EmptyRange(t *testing.T) {
	runBackendTest(t, func(t *testing.T, e *Executor) {
		var calls atomic.Int32
		got, err := Reduce(context.Background(), e, 3, 3, int64(42),
			func(a, b int64) int64 {
				calls.Add(1)
				return a + b
			},
			func(ctx context.Context, i int) (int64, error) {
				calls.Add(1)
				return 1, nil
			})
		require.NoError(t, err)
		assert.EqualValues(t, 42, got)
		assert.Zero(t, calls.Load())
	})
}

func TestReduce_IgnoresDynamic(t *testing.T) {
	e := newTestExecutor(t, BackendGoroutine)

	ranks := make([]int, 40)
	_, err := Reduce(context.Background(), e, 0, 40, 0, add,
		func(ctx context.Context, i int) (int64, error) {
			ranks[i] = ThreadNum(ctx)
			return 0, nil
		}, Dynamic(1))
	require.NoError(t, err)

	for rank, r := range Partition(0, 40, testThreads) {
		for i := r.Start; i < r.End; i++ {
			assert.Equal(t, rank, ranks[i])
		}
	}
}

func TestReduce_OrderedCombine(t *testing.T) {
	// string concatenation is associative but not commutative
	runBackendTest(t, func(t *testing.T, e *Executor) {
		letters := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		got, err := ReduceSlice(context.Background(), e, letters, "", func(a, b string) string {
			return a + b
		})
		require.NoError(t, err)
		assert.Equal(t, "abcdefghij", got)
	})
}

func TestReduce_IdenticalAcrossBackends(t *testing.T) {
	values := make([]float64, 100_003)
	for i := range values {
		values[i] = math.Sin(float64(i)) / float64(i+1)
	}

	var results []float64
	for _, kind := range availableBackends() {
		e := newTestExecutor(t, kind)
		got, err := ReduceSlice(context.Background(), e, values, 0.0, func(a, b float64) float64 {
			return a + b
		})
		require.NoError(t, err)
		results = append(results, got)
	}

	for i := 1; i < len(results); i++ {
		assert.Equal(t, math.Float64bits(results[0]), math.Float64bits(results[i]),
			"%v and %v disagree", availableBackends()[0], availableBackends()[i])
	}
}

func TestTransformReduceSlice(t *testing.T) {
	runBackendTest(t, func(t *testing.T, e *Executor) {
		words := []string{"alpha", "be", "gamma", "d", "epsilon"}
		got, err := TransformReduceSlice(context.Background(), e, words, 0,
			func(a, b int) int { return max(a, b) },
			func(s string) int { return len(s) })
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})
}

func TestReduce_Error(t *testing.T) {
	runBackendTest(t, func(t *testing.T, e *Executor) {
		boom := errors.New("boom")
		got, err := Reduce(context.Background(), e, 0, 100, 0, add,
			func(ctx context.Context, i int) (int64, error) {
				if i == 60 {
					return 0, boom
				}
				return 1, nil
			})
		require.ErrorIs(t, err, boom)
		assert.Zero(t, got)
	})
}

func TestReduce_UsageError(t *testing.T) {
	e := newTestExecutor(t, BackendSequential)
	_, err := Reduce(context.Background(), e, 0, 10, 0, add,
		func(ctx context.Context, i int) (int64, error) { return 1, nil }, Threads(0))
	assert.ErrorIs(t, err, ErrInvalidThreadCount)
}

func BenchmarkReduce(b *testing.B) {
	for _, kind := range availableBackends() {
		b.Run(kind.String(), func(b *testing.B) {
			e := newTestExecutor(b, kind)
			b.ResetTimer()
			for range b.N {
				_, _ = Reduce(context.Background(), e, 0, 1<<16, 0, add,
					func(ctx context.Context, i int) (int64, error) {
						return int64(i), nil
					})
			}
		})
	}
}

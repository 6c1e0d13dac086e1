package parallel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduction(t *testing.T) {
	runBackendTest(t, func(t *testing.T, e *Executor) {
		r := NewReduction(e, int64(0), add)

		err := e.For(context.Background(), 0, 1000, func(ctx context.Context, i int) error {
			r.Update(ctx, int64(i))
			return nil
		}, Dynamic(10))
		require.NoError(t, err)
		assert.EqualValues(t, 999*1000/2, r.Combine())

		r.Reset()
		assert.Zero(t, r.Combine())
	})
}

func TestReduction_Local(t *testing.T) {
	e := newTestExecutor(t, BackendSequential)
	r := NewReduction(e, 1, func(a, b int) int { return a * b })

	*r.Local(context.Background()) = 6
	r.Update(context.Background(), 7)
	assert.Equal(t, 42, r.Combine())
}

package backend

import (
	"context"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/utkarsh5026/parx/internal/types"
)

type sequentialBackend struct {
	closed atomic.Bool
}

func newSequentialBackend() *sequentialBackend {
	return &sequentialBackend{}
}

func (b *sequentialBackend) Kind() Kind      { return KindSequential }
func (b *sequentialBackend) Name() string    { return KindSequential.String() }
func (b *sequentialBackend) MaxWorkers() int { return 1 }
func (b *sequentialBackend) Close()          { b.closed.Store(true) }

func (b *sequentialBackend) Run(ctx context.Context, team int, body Body) error {
	if b.closed.Load() {
		return ErrClosed
	}

	var err error
	for rank := range team {
		rctx := types.WithWorker(ctx, types.WorkerInfo{ID: 0, Rank: rank, TeamSize: team})
		err = multierr.Append(err, types.Recover(func() error {
			return body(rctx, rank)
		}))
	}
	return err
}

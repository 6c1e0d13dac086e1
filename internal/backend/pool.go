package backend

import (
	"context"

	"go.uber.org/multierr"

	"github.com/utkarsh5026/parx/internal/types"
	"github.com/utkarsh5026/parx/pool"
)

// poolBackend queues one task per rank on a ThreadPool. It serves both
// KindPool and KindPinned.
type poolBackend struct {
	kind Kind
	pool *pool.ThreadPool
}

func newPoolBackend(cfg Config, pinned bool) (*poolBackend, error) {
	p, err := pool.New(
		pool.WithWorkers(cfg.Workers),
		pool.WithPinnedWorkers(pinned),
		pool.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, err
	}

	kind := KindPool
	if pinned {
		kind = KindPinned
	}
	return &poolBackend{kind: kind, pool: p}, nil
}

func (b *poolBackend) Kind() Kind      { return b.kind }
func (b *poolBackend) Name() string    { return b.kind.String() }
func (b *poolBackend) MaxWorkers() int { return b.pool.Size() }
func (b *poolBackend) Close()          { b.pool.Shutdown() }

// Pool exposes the underlying pool, mainly for stats.
func (b *poolBackend) Pool() *pool.ThreadPool { return b.pool }

func (b *poolBackend) Run(ctx context.Context, team int, body Body) error {
	futures := make([]*pool.Future[struct{}], team)

	var err error
	for rank := range team {
		f, qerr := b.pool.Enqueue(func(wctx context.Context) error {
			id, _ := pool.WorkerID(wctx)
			rctx := types.WithWorker(ctx, types.WorkerInfo{ID: id, Rank: rank, TeamSize: team})
			return body(rctx, rank)
		})
		if qerr != nil {
			err = multierr.Append(err, ErrClosed)
			break
		}
		futures[rank] = f
	}

	for _, f := range futures {
		if f == nil {
			continue
		}
		_, ferr := f.Get()
		err = multierr.Append(err, ferr)
	}
	return err
}

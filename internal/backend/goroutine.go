package backend

import (
	"context"
	"sync/atomic"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/parx/internal/types"
)

// goroutineBackend starts one goroutine per rank and lets the Go scheduler
// place them. ids hands out worker identities so that ranks running at the
// same time never share one, across concurrent Run calls too.
type goroutineBackend struct {
	workers int
	ids     chan int
	closed  atomic.Bool
}

func newGoroutineBackend(cfg Config) *goroutineBackend {
	ids := make(chan int, cfg.Workers)
	for id := range cfg.Workers {
		ids <- id
	}
	return &goroutineBackend{workers: cfg.Workers, ids: ids}
}

func (b *goroutineBackend) Kind() Kind      { return KindGoroutine }
func (b *goroutineBackend) Name() string    { return KindGoroutine.String() }
func (b *goroutineBackend) MaxWorkers() int { return b.workers }
func (b *goroutineBackend) Close()          { b.closed.Store(true) }

func (b *goroutineBackend) Run(ctx context.Context, team int, body Body) error {
	if b.closed.Load() {
		return ErrClosed
	}

	errs := make([]error, team)

	var g errgroup.Group
	g.SetLimit(b.workers)
	for rank := range team {
		g.Go(func() error {
			id := <-b.ids
			defer func() { b.ids <- id }()

			rctx := types.WithWorker(ctx, types.WorkerInfo{ID: id, Rank: rank, TeamSize: team})
			errs[rank] = types.Recover(func() error {
				return body(rctx, rank)
			})
			return nil
		})
	}
	_ = g.Wait()

	return multierr.Combine(errs...)
}

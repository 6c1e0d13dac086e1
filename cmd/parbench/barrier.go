package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parx/parallel"
)

func newBarrierCmd(a *app) *cobra.Command {
	var phases int

	cmd := &cobra.Command{
		Use:   "barrier",
		Short: "Stress the barrier with every rank of a parallel region",
		RunE: func(cmd *cobra.Command, args []string) error {
			if phases <= 0 {
				return fmt.Errorf("--phases must be positive")
			}
			return a.barrier(phases)
		},
	}
	cmd.Flags().IntVarP(&phases, "phases", "p", 10_000, "number of barrier phases")
	return cmd
}

func (a *app) barrier(phases int) error {
	e, err := a.executor()
	if err != nil {
		return err
	}
	defer e.Close()

	team := min(e.NumThreads(), e.MaxWorkers())
	b, err := parallel.NewBarrier(team)
	if err != nil {
		return err
	}

	counts := make([]atomic.Int64, phases)
	var stale atomic.Int64

	start := time.Now()
	err = e.Parallel(context.Background(), func(ctx context.Context) error {
		for p := range phases {
			counts[p].Add(1)
			if gen := b.Wait(); gen != uint64(p) {
				stale.Add(1)
			}
			if counts[p].Load() != int64(parallel.TeamSize(ctx)) {
				stale.Add(1)
			}
		}
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	fmt.Printf("backend %s, %d participants, %d phases in %s (%.0f phases/s)\n",
		cyan.Sprint(e.Backend()), team, phases, elapsed.Round(time.Microsecond),
		float64(phases)/elapsed.Seconds())

	if n := stale.Load(); n > 0 || b.Generation() != uint64(phases) {
		_, _ = red.Printf("barrier violated: %d stale observations, generation %d\n", n, b.Generation())
		return fmt.Errorf("barrier check failed")
	}
	_, _ = green.Println("no stale generations observed")
	return nil
}

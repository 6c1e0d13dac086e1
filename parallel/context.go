package parallel

import (
	"context"

	"github.com/utkarsh5026/parx/internal/types"
)

// ThreadID returns the identity of the worker running the current closure.
// Distinct closures running at the same time on one executor never share an
// ID. It is 0 outside any region.
func ThreadID(ctx context.Context) int {
	info, _ := types.WorkerFrom(ctx)
	return info.ID
}

// ThreadNum returns the rank of the current closure within its team, or 0
// outside any region.
func ThreadNum(ctx context.Context) int {
	return rankOf(ctx)
}

// TeamSize returns the number of ranks of the current region, or 1 outside
// any region.
func TeamSize(ctx context.Context) int {
	info, ok := types.WorkerFrom(ctx)
	if !ok || info.TeamSize <= 0 {
		return 1
	}
	return info.TeamSize
}

// InParallel reports whether ctx belongs to a region running with more than
// one rank, directly or through an enclosing region.
func InParallel(ctx context.Context) bool {
	info, _ := types.WorkerFrom(ctx)
	return info.Level > 0
}

func rankOf(ctx context.Context) int {
	info, _ := types.WorkerFrom(ctx)
	return info.Rank
}

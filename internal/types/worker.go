package types

import "context"

// WorkerInfo identifies the body currently executing inside a parallel
// region. ID is the stable identity of the worker running the body, Rank
// and TeamSize describe the region itself. Level counts the enclosing
// regions that run with more than one rank.
type WorkerInfo struct {
	ID       int
	Rank     int
	TeamSize int
	Level    int
}

type workerKey struct{}

// WithWorker returns a copy of ctx carrying info.
func WithWorker(ctx context.Context, info WorkerInfo) context.Context {
	return context.WithValue(ctx, workerKey{}, info)
}

// WorkerFrom extracts the WorkerInfo stored in ctx. ok is false outside of
// any parallel region.
func WorkerFrom(ctx context.Context) (WorkerInfo, bool) {
	if ctx == nil {
		return WorkerInfo{}, false
	}
	info, ok := ctx.Value(workerKey{}).(WorkerInfo)
	return info, ok
}

// InRegion reports whether ctx belongs to a running parallel region.
func InRegion(ctx context.Context) bool {
	info, ok := WorkerFrom(ctx)
	return ok && info.TeamSize > 0
}

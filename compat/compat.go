// Package compat exposes the classic OpenMP style query and control calls
// on top of package parallel, for call sites ported from code that used
// omp_get_num_procs, omp_set_num_threads and friends.
//
// Thread numbers are per region, so the region's context has to be passed
// where the original calls read thread-local state.
package compat

import (
	"context"

	"github.com/utkarsh5026/parx/internal/cpu"
	"github.com/utkarsh5026/parx/parallel"
)

// GetNumProcs returns the number of logical processors available.
func GetNumProcs() int {
	return cpu.NumProcs()
}

// GetThreadNum returns the rank of the caller within its region, or 0
// outside any region.
func GetThreadNum(ctx context.Context) int {
	return parallel.ThreadNum(ctx)
}

// GetNumThreads returns the size of the caller's team, or 1 outside any
// region.
func GetNumThreads(ctx context.Context) int {
	return parallel.TeamSize(ctx)
}

// InParallel reports whether the caller runs inside a parallel region.
func InParallel(ctx context.Context) bool {
	return parallel.InParallel(ctx)
}

// Shim binds the process-wide style setters to one executor.
type Shim struct {
	e *parallel.Executor
}

// NewShim wraps e.
func NewShim(e *parallel.Executor) *Shim {
	return &Shim{e: e}
}

// SetNumThreads sets the thread count used by later regions. It does not
// resize the executor's workers.
func (s *Shim) SetNumThreads(n int) error {
	return s.e.SetNumThreads(n)
}

// GetMaxThreads returns the team size a region started now would get.
func (s *Shim) GetMaxThreads() int {
	return s.e.NumThreads()
}

// GetNumProcs returns the number of logical processors available.
func (s *Shim) GetNumProcs() int {
	return GetNumProcs()
}

// Executor returns the wrapped executor.
func (s *Shim) Executor() *parallel.Executor {
	return s.e
}

package pool

import (
	"errors"

	"github.com/utkarsh5026/parx/internal/types"
)

var (
	// ErrPoolStopped is returned when submitting to a pool that is shutting
	// down or already shut down.
	ErrPoolStopped = errors.New("pool: stopped")

	// ErrInvalidWorkerCount is returned by New when WithWorkers is given a
	// non-positive count.
	ErrInvalidWorkerCount = errors.New("pool: worker count must be positive")
)

// PanicError is the error a Future reports when its task panicked.
type PanicError = types.PanicError

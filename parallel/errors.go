package parallel

import (
	"errors"
	"fmt"

	"github.com/utkarsh5026/parx/internal/types"
)

var (
	// ErrInvalidThreadCount reports a non-positive thread or worker count.
	ErrInvalidThreadCount = errors.New("thread count must be positive")

	// ErrInvalidChunkSize reports a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidParticipants reports a barrier created for fewer than one
	// participant.
	ErrInvalidParticipants = errors.New("barrier needs at least one participant")

	// ErrExecutorClosed is returned when using an Executor after Close.
	ErrExecutorClosed = errors.New("parallel: executor closed")
)

// UsageError reports an invalid argument passed to Op.
type UsageError struct {
	Op    string
	Value int
	Err   error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("parallel: %s(%d): %v", e.Op, e.Value, e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }

func usageError(op string, value int, err error) error {
	return &UsageError{Op: op, Value: value, Err: err}
}

// TaskError is the failure of one rank of a region while it processed
// Range.
type TaskError struct {
	Rank  int
	Range Range
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("parallel: rank %d %v: %v", e.Rank, e.Range, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// PanicError is the error recorded when a closure panics.
type PanicError = types.PanicError

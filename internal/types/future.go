package types

import (
	"context"
	"sync"
)

// Result pairs a task's value with the error it finished with.
type Result[R any] struct {
	Value R
	Error error
}

// Future is a one-shot handle to the outcome of a submitted task.
// The producer calls Complete exactly once; any number of goroutines may
// wait on it.
type Future[R any] struct {
	done   chan struct{}
	once   sync.Once
	result Result[R]
}

// NewFuture creates a pending Future.
func NewFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// Complete records the outcome and releases every waiter. Only the first
// call has an effect; it reports whether this call won.
func (f *Future[R]) Complete(value R, err error) bool {
	won := false
	f.once.Do(func() {
		f.result = Result[R]{Value: value, Error: err}
		close(f.done)
		won = true
	})
	return won
}

// Get blocks until the task finished and returns its value and error.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.result.Value, f.result.Error
}

// GetWithContext waits for the result until ctx is done. Cancelling ctx
// only stops the wait; the task itself keeps running.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Error
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the result without blocking. ready is false while the
// task is still pending.
func (f *Future[R]) TryGet() (value R, err error, ready bool) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Error, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Done returns a channel that is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the result is available.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

package parallel

import (
	"context"
	"sync"
)

const cacheLinePad = 64

type reductionSlot[T any] struct {
	value T
	_     [cacheLinePad]byte
}

// Reduction is a long-lived accumulator with one private slot per worker.
// Closures update their own slot through Local without locking; Combine
// folds the slots once the regions using it have returned.
//
// identity must be neutral for combine, since every slot starts from it and
// untouched slots take part in Combine. A Reduction must not be used by two
// regions running at the same time.
type Reduction[T any] struct {
	identity T
	combine  func(a, b T) T
	slots    []reductionSlot[T]
	mu       sync.Mutex
}

// NewReduction creates a Reduction sized for e's workers.
func NewReduction[T any](e *Executor, identity T, combine func(a, b T) T) *Reduction[T] {
	r := &Reduction[T]{
		identity: identity,
		combine:  combine,
		slots:    make([]reductionSlot[T], max(e.MaxWorkers(), 1)),
	}
	r.Reset()
	return r
}

// Local returns the slot of the worker running ctx. Outside a region it
// returns the first slot.
func (r *Reduction[T]) Local(ctx context.Context) *T {
	id := ThreadID(ctx)
	return &r.slots[id%len(r.slots)].value
}

// Update folds v into the caller's slot.
func (r *Reduction[T]) Update(ctx context.Context, v T) {
	slot := r.Local(ctx)
	*slot = r.combine(*slot, v)
}

// Combine folds every slot, in worker order, starting from identity.
func (r *Reduction[T]) Combine() T {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.identity
	for i := range r.slots {
		result = r.combine(result, r.slots[i].value)
	}
	return result
}

// Reset sets every slot back to identity.
func (r *Reduction[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		r.slots[i].value = r.identity
	}
}

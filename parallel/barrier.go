package parallel

import "sync"

// Barrier blocks a fixed number of participants until all of them arrived,
// then releases them together. It is reusable: each release completes one
// phase.
type Barrier struct {
	parties int

	mu         sync.Mutex
	cond       *sync.Cond
	arrived    int
	generation uint64
}

// NewBarrier creates a barrier for parties participants.
func NewBarrier(parties int) (*Barrier, error) {
	if parties <= 0 {
		return nil, usageError("NewBarrier", parties, ErrInvalidParticipants)
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b, nil
}

// Wait blocks until every participant called Wait for the current phase
// and returns the index of the phase it completed. Waiters wake on the
// generation change, so a fast participant re-entering Wait for the next
// phase cannot release the slower ones twice.
func (b *Barrier) Wait() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return gen
	}
	for gen == b.generation {
		b.cond.Wait()
	}
	return gen
}

// Generation returns the number of completed phases.
func (b *Barrier) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// Parties returns the number of participants.
func (b *Barrier) Parties() int {
	return b.parties
}

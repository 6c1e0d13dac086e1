package parallel

import "sync/atomic"

// Single runs a function at most once per reset. Unlike sync.Once, callers
// that lose the race do not wait for the winner to finish.
type Single struct {
	claimed atomic.Bool
}

// Do runs fn if no caller claimed s since the last Reset and reports
// whether this call ran it.
func (s *Single) Do(fn func()) bool {
	if !s.claimed.CompareAndSwap(false, true) {
		return false
	}
	fn()
	return true
}

// Done reports whether s has been claimed.
func (s *Single) Done() bool {
	return s.claimed.Load()
}

// Reset makes s claimable again.
func (s *Single) Reset() {
	s.claimed.Store(false)
}

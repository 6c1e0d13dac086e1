package parallel

import "sync"

// Critical is a mutual-exclusion section. The zero value is ready to use.
type Critical struct {
	mu sync.Mutex
}

// Do runs fn while holding the lock. The lock is released on every exit
// path, including a panic in fn.
func (c *Critical) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// DoErr is Do for functions that fail.
func (c *Critical) DoErr(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}

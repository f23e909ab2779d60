// Package busy tracks the number of outbound calls currently in flight.
// The counter is a process-wide singleton mutated only by the request
// pipeline's enter/settle hooks; everything else reads it.
package busy

import "sync/atomic"

// Counter is a reference count of unsettled calls
type Counter struct {
	n atomic.Int64
}

// Enter records the start of a call
func (c *Counter) Enter() {
	c.n.Add(1)
}

// Settle records a call settling, success or failure. The count is floored
// at zero so a stray settle can never drive it negative.
func (c *Counter) Settle() {
	for {
		cur := c.n.Load()
		if cur == 0 {
			return
		}
		if c.n.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Count returns the number of calls currently in flight
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// Active reports whether at least one call is outstanding
func (c *Counter) Active() bool {
	return c.n.Load() > 0
}

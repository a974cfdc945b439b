// Package backpressure implements the admission-control primitives a
// Stream[T] pipeline's host (a transport, a worker pool) uses to avoid
// overrunning a slow consumer: credit-based flow control, an adaptive
// target-latency rate controller, a sliding-window rate limiter, and a
// composite admission policy built from them. None of these types touch
// a Stream[T] directly — they are the contract a hosting component
// wires up around one.
package backpressure

import "sync"

// CreditController tracks a single consumer's remaining receive
// capacity. Uses a mutex-guarded counter rather than sync/atomic
// directly, since grant/consume/reset must be observed as a single
// atomic step together with the saturating-max clamp.
type CreditController struct {
	mu        sync.Mutex
	available int64
	initial   int64
	max       int64
}

// NewCreditController returns a controller starting at initial credits,
// never granted above max.
func NewCreditController(initial, max int64) *CreditController {
	return &CreditController{available: initial, initial: initial, max: max}
}

// TryConsume decrements available by n and returns true if there was
// enough; otherwise available is left unchanged and it returns false.
func (c *CreditController) TryConsume(n int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.available >= n {
		c.available -= n
		return true
	}
	return false
}

// Grant increments available by n, saturating at max.
func (c *CreditController) Grant(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available += n
	if c.available > c.max {
		c.available = c.max
	}
}

// Reset restores available to its initial value.
func (c *CreditController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = c.initial
}

// Available returns the current credit balance.
func (c *CreditController) Available() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

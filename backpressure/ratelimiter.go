package backpressure

import (
	"sync"
	"time"
)

// WindowedRateLimiter admits up to max events in any trailing windowMs
// window, tracked by an explicit timestamp slice rather than a token
// bucket — spec §4.5 prescribes exact sliding-window-count semantics a
// token bucket does not reproduce (see DESIGN.md for why
// golang.org/x/time/rate was passed over).
type WindowedRateLimiter struct {
	mu         sync.Mutex
	windowMs   int64
	max        int
	timestamps []int64 // ascending epoch-ms, oldest first
}

// NewWindowedRateLimiter returns a limiter admitting at most max events
// per windowMs milliseconds.
func NewWindowedRateLimiter(windowMs int64, max int) *WindowedRateLimiter {
	return &WindowedRateLimiter{windowMs: windowMs, max: max}
}

func toEpochMs(t time.Time) int64 {
	return t.UnixMilli()
}

// evictLocked drops timestamps older than now-windowMs. Caller holds mu.
func (r *WindowedRateLimiter) evictLocked(now int64) {
	cutoff := now - r.windowMs
	i := 0
	for i < len(r.timestamps) && r.timestamps[i] < cutoff {
		i++
	}
	if i > 0 {
		r.timestamps = r.timestamps[i:]
	}
}

// TryAcquire admits one event at now (defaulting to the wall clock),
// recording it and returning true if the window has room, or false if
// it is already at capacity.
func (r *WindowedRateLimiter) TryAcquire(now ...time.Time) bool {
	ts := resolveNow(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(ts)
	if len(r.timestamps) >= r.max {
		return false
	}
	r.timestamps = append(r.timestamps, ts)
	return true
}

// CurrentRate reports the events-per-second rate implied by the current
// window occupancy.
func (r *WindowedRateLimiter) CurrentRate(now ...time.Time) float64 {
	ts := resolveNow(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(ts)
	return float64(len(r.timestamps)) * 1000 / float64(r.windowMs)
}

// AvailableSlots reports how many more events the window could admit
// right now.
func (r *WindowedRateLimiter) AvailableSlots(now ...time.Time) int {
	ts := resolveNow(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(ts)
	slots := r.max - len(r.timestamps)
	if slots < 0 {
		return 0
	}
	return slots
}

func resolveNow(now []time.Time) int64 {
	if len(now) > 0 {
		return toEpochMs(now[0])
	}
	return toEpochMs(time.Now())
}

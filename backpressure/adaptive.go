package backpressure

import (
	"math"
	"sync"
)

// AdaptiveBackpressure is a target-latency rate controller: it nudges
// its allowed rate up when observed latency is below target and down
// when it is above, proportional-control style with gain alpha.
type AdaptiveBackpressure struct {
	mu sync.Mutex

	rate          float64
	minRate       float64
	maxRate       float64
	targetLatency float64
	alpha         float64
}

// NewAdaptiveBackpressure returns a controller starting at initialRate.
// alpha defaults to 0.2 when <= 0, matching spec's default gain.
func NewAdaptiveBackpressure(initialRate, targetLatencyMs, minRate, maxRate, alpha float64) *AdaptiveBackpressure {
	if alpha <= 0 {
		alpha = 0.2
	}
	return &AdaptiveBackpressure{
		rate:          initialRate,
		minRate:       minRate,
		maxRate:       maxRate,
		targetLatency: targetLatencyMs,
		alpha:         alpha,
	}
}

// Update adjusts rate from the most recently observed latency:
// error = target - observed; rate <- clamp(rate*(1+alpha*error/target), min, max).
func (a *AdaptiveBackpressure) Update(observedLatencyMs float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	errRatio := (a.targetLatency - observedLatencyMs) / a.targetLatency
	a.rate = clamp(a.rate*(1+a.alpha*errRatio), a.minRate, a.maxRate)
}

// ShouldThrottle reports whether currentThroughput exceeds the current
// allowed rate.
func (a *AdaptiveBackpressure) ShouldThrottle(currentThroughput float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return currentThroughput > a.rate
}

// DelayMs is the inter-item delay implied by the current rate.
func (a *AdaptiveBackpressure) DelayMs() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int64(math.Floor(1000 / a.rate))
}

// Rate returns the current allowed rate.
func (a *AdaptiveBackpressure) Rate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

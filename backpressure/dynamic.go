package backpressure

// Metrics is the snapshot DynamicBackpressure admits or rejects
// against.
type Metrics struct {
	QueueSize      int
	ProcessingRate float64
	InputRate      float64
	LatencyMs      float64
	MemoryUsage    float64
}

// DynamicBackpressure is a composite admission policy combining a hard
// queue-depth cap, a latency cap, and an AdaptiveBackpressure rate
// check. Both the accept and reject paths feed the observed latency
// back into the adaptive controller — per original_source/src/
// backpressure.rs, latency feedback is unconditional, not just on
// rejection.
type DynamicBackpressure struct {
	maxQueue      int
	targetLatency float64
	adaptive      *AdaptiveBackpressure
}

// NewDynamicBackpressure wires a DynamicBackpressure around an already
// configured AdaptiveBackpressure controller.
func NewDynamicBackpressure(maxQueue int, targetLatencyMs float64, adaptive *AdaptiveBackpressure) *DynamicBackpressure {
	return &DynamicBackpressure{maxQueue: maxQueue, targetLatency: targetLatencyMs, adaptive: adaptive}
}

// Admit reports whether m should be accepted, rejecting when the queue
// is at capacity, latency has blown past twice the target, or the
// adaptive controller says the input rate is too hot.
func (d *DynamicBackpressure) Admit(m Metrics) bool {
	d.adaptive.Update(m.LatencyMs)

	if m.QueueSize >= d.maxQueue {
		return false
	}
	if m.LatencyMs > 2*d.targetLatency {
		return false
	}
	if d.adaptive.ShouldThrottle(m.InputRate) {
		return false
	}
	return true
}

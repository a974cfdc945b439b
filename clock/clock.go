// Package clock provides an abstraction over time operations so that
// time-dependent processors can be tested deterministically.
package clock

import "time"

// Clock provides time operations for deterministic testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After waits for the duration to elapse and then sends the current time.
	After(d time.Duration) <-chan time.Time

	// AfterFunc waits for the duration to elapse and then executes f.
	AfterFunc(d time.Duration, f func()) Timer

	// NewTimer creates a new Timer.
	NewTimer(d time.Duration) Timer

	// NewTicker returns a new Ticker.
	NewTicker(d time.Duration) Ticker
}

// Timer represents a single event timer.
type Timer interface {
	// Stop prevents the Timer from firing.
	Stop() bool

	// Reset changes the timer to expire after duration d.
	Reset(d time.Duration) bool

	// C returns the channel on which the time will be sent.
	C() <-chan time.Time
}

// Ticker delivers ticks at intervals.
type Ticker interface {
	// Stop turns off the ticker.
	Stop()

	// C returns the channel on which the ticks are delivered.
	C() <-chan time.Time
}

// realClock is the default Clock implementation backed by the standard
// library time package.
type realClock struct{}

// Real is the default Clock using standard time.
var Real Clock = realClock{}

package nagare

import (
	"fmt"
	"time"
)

// StreamError pairs the item that failed with the error that failed it,
// for the channel-native processors (Mapper, Throttle, Debounce) that
// move Result[T] through plain channels instead of a Stream[T] pipeline.
// Kind classifies it against the same fault taxonomy errors.go uses for
// the lazy core, so a Result-level error converts into a *Fault with
// ToFault and flows through the exact same error policy.
//
//nolint:govet // fieldalignment: struct layout optimized for readability over memory
type StreamError[T any] struct {
	// Item is the original item that caused the processing error.
	Item T

	// Err is the underlying error that occurred during processing.
	Err error

	// ProcessorName identifies which processor generated the error.
	ProcessorName string

	// Timestamp records when the error occurred.
	Timestamp time.Time

	// Kind classifies the error against the lazy core's fault taxonomy.
	Kind Kind
}

// NewStreamError creates a StreamError of kind OperatorFault, stamped
// with the current time.
func NewStreamError[T any](item T, err error, processorName string) *StreamError[T] {
	return &StreamError[T]{
		Item:          item,
		Err:           err,
		ProcessorName: processorName,
		Timestamp:     time.Now(),
		Kind:          OperatorFault,
	}
}

// String returns a human-readable representation of the error.
func (se *StreamError[T]) String() string {
	return fmt.Sprintf("StreamError[%s/%s]: %v (item: %v, time: %s)",
		se.Kind, se.ProcessorName, se.Err, se.Item, se.Timestamp.Format(time.RFC3339))
}

// Unwrap returns the underlying error, enabling error wrapping chains.
func (se *StreamError[T]) Unwrap() error {
	return se.Err
}

// Error implements the error interface.
func (se *StreamError[T]) Error() string {
	return se.String()
}

// ToFault converts a StreamError into the *Fault the lazy Stream[T]
// core raises internally, so an item that fails on the channel-native
// side surfaces through the same error policy as a map/filter fault.
func (se *StreamError[T]) ToFault() *Fault {
	return NewFault(se.Kind, se.ProcessorName, se.Err)
}

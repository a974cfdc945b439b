package nagare

import (
	"errors"
	"fmt"
)

// Kind classifies the taxonomy of faults a pipeline can raise: some are
// recoverable per the pipeline's ErrorPolicy, others always propagate
// because they indicate a programming error rather than a transient
// condition.
type Kind int

const (
	// OperatorFault means a user-supplied callback (map/filter/scan/...)
	// panicked or returned an error while processing an item.
	OperatorFault Kind = iota
	// TypeFault means a value fed to a typed operator had the wrong shape,
	// e.g. a non-numeric value reaching windowedAggregate. Always propagates.
	TypeFault
	// SourceFault means the underlying source raised or closed abnormally.
	// Always propagates to the consumer as a stream-level error.
	SourceFault
	// KernelFault means an external numeric kernel was not registered or
	// rejected its input. Always propagates.
	KernelFault
	// CancelRequested is cooperative cancellation, surfaced as completion
	// rather than an error condition.
	CancelRequested
	// ProtocolFault is a serialization/framing mismatch at a transport
	// boundary (see the frame package).
	ProtocolFault
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case OperatorFault:
		return "operator_fault"
	case TypeFault:
		return "type_fault"
	case SourceFault:
		return "source_fault"
	case KernelFault:
		return "kernel_fault"
	case CancelRequested:
		return "cancel_requested"
	case ProtocolFault:
		return "protocol_fault"
	default:
		return "unknown_fault"
	}
}

// Fault is the single error type raised across the engine. It carries a
// Kind so callers can branch on the taxonomy without string matching, and
// it wraps the triggering error so errors.Is/errors.As keep working.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Fault struct {
	Kind Kind
	Op   string // name of the operator/component that raised the fault
	Err  error
}

// NewFault creates a Fault of the given kind.
func NewFault(kind Kind, op string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Err: err}
}

func (f *Fault) Error() string {
	if f.Op == "" {
		return fmt.Sprintf("nagare: %s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("nagare: %s[%s]: %v", f.Kind, f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// IsKind reports whether err is a *Fault of the given Kind.
func IsKind(err error, kind Kind) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// errCancelled is the sentinel returned internally when cooperative
// cancellation interrupts a finalizer; it is never surfaced to a caller as
// a *Fault since cancellation is completion, not an error.
var errCancelled = errors.New("nagare: cancelled")

// errSkipItem is returned internally by an operator's boxed function to
// mean "no value" without it being a fault of any kind — e.g.
// Pairwise's first item, a repeat Distinct suppresses, or a
// WindowedAggregate input before its window is full. It never
// crosses the package boundary.
var errSkipItem = errors.New("nagare: skip item")

// errAlreadyConsumed is wrapped by a SourceFault when a non-reiterable
// stream is finalized more than once.
var errAlreadyConsumed = errors.New("stream already consumed")

// errTakeExhausted signals that a Take(n) stage has emitted its quota;
// the caller must stop pulling from the base source entirely, not just
// skip the current item.
var errTakeExhausted = errors.New("nagare: take exhausted")

// errNotFloat32 is wrapped by a TypeFault when a value reaching a
// numeric-only operator (windowedAggregate, mapWasm) is not a float32.
var errNotFloat32 = errors.New("nagare: value is not a float32")

package nagare

// policyKind enumerates the error-policy variants from the operator tag
// model. Drop is the default for every freshly-sourced or type-changed
// stream.
type policyKind int

const (
	policyDrop policyKind = iota
	policyPropagate
	policyRescue
	policyTerminate
)

// policy is the boxed, non-generic form of ErrorPolicy[T] used once a
// pipeline is flattened — flatten() walks streams of differing type
// parameters, so the policy carried through it cannot stay generic.
type policy struct {
	kind   policyKind
	rescue func(error) (any, bool)
}

// ErrorPolicy is the type-safe handle returned by Stream[T].Rescue and
// the package-level policy constructors. Its only job is to box down to
// a policy at the point a Stream[T] node stores it.
type ErrorPolicy[T any] struct {
	internal policy
}

// DropErrors drops the offending item and continues; this is the default
// policy for every freshly-sourced stream and every type-changing
// operator's child stream.
func DropErrors[T any]() ErrorPolicy[T] {
	return ErrorPolicy[T]{policy{kind: policyDrop}}
}

// PropagateErrors drops the offending item, continues processing the
// rest of the stream, but surfaces the first such error to the finalizer
// once the stream completes — distinguishing it from Drop (silent) and
// from Terminate (stops immediately). This resolves an ambiguity in the
// error-policy description: the two are described identically at the
// per-item level but must differ in overall effect, or the variant would
// be redundant.
func PropagateErrors[T any]() ErrorPolicy[T] {
	return ErrorPolicy[T]{policy{kind: policyPropagate}}
}

// RescueErrors calls h with the triggering error; if it reports ok, the
// recovered value is emitted in place of the failed item and the
// remaining operators in the chain are skipped for that item.
func RescueErrors[T any](h func(error) (T, bool)) ErrorPolicy[T] {
	return ErrorPolicy[T]{policy{
		kind: policyRescue,
		rescue: func(err error) (any, bool) {
			v, ok := h(err)
			return v, ok
		},
	}}
}

// TerminateOnError propagates the error to the consumer and closes the
// stream without processing further items.
func TerminateOnError[T any]() ErrorPolicy[T] {
	return ErrorPolicy[T]{policy{kind: policyTerminate}}
}

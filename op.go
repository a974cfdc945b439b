package nagare

import "context"

// OpKind tags the structured metadata carried by each operator so the
// fusion compiler can recognize and specialize it without closure
// introspection — Go has no symbol properties, so the tag lives on the
// struct directly.
type OpKind int

const (
	OpMap OpKind = iota
	OpFilter
	OpScan
	OpTake
	OpSkip
	OpWasm
	OpOpaque
)

func (k OpKind) String() string {
	switch k {
	case OpMap:
		return "map"
	case OpFilter:
		return "filter"
	case OpScan:
		return "scan"
	case OpTake:
		return "take"
	case OpSkip:
		return "skip"
	case OpWasm:
		return "wasm"
	case OpOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Op is one entry of a flattened pipeline's operator list. Payloads are
// boxed as `any` so a single `[]Op` can span type-changing stages (Map
// T→U, Scan T→Acc) the way a dynamically-typed host language's chain
// does; the public Stream[T] API stays fully generic and only boxes at
// the Op boundary.
type Op struct {
	Kind  OpKind
	Label string // operator name for Fault.Op; defaults to Kind.String()
	Async bool   // true when the user-supplied callback is the *Async variant

	mapFn    func(context.Context, any) (any, error)
	filterFn func(context.Context, any) (bool, error)
	scanFn   func(context.Context, any, any) (any, error) // (acc, item) -> acc
	opaqueFn func(context.Context, any) (any, error)

	// opaqueFactory, when set, produces a fresh opaqueFn closure (with its
	// own private state) on every instantiate() call — the mechanism
	// stateful Opaque stages (Pairwise, Distinct) use to get a clean
	// slate on re-iteration, since a closure baked once at construction
	// time cannot otherwise be reset the way Scan/Take/Skip's opState is.
	opaqueFactory func() func(context.Context, any) (any, error)

	seed any // Scan's initial accumulator, copied into state.acc on instantiation

	n uint64 // Take/Skip quota

	wasmName   string
	wasmParams map[string]any

	// state is nil on the template Op stored on a Stream[T] node and is
	// allocated fresh by instantiate (via instantiateOps) whenever a pipeline is instantiated for
	// execution, so re-iterating an array-based stream re-instantiates
	// Scan/Take/Skip state from scratch rather than resuming stale cursors.
	state *opState
}

// opState is the per-instantiation mutable state for stateful operator
// kinds. Stateless kinds (Map, Filter, Wasm, Opaque) leave this nil.
type opState struct {
	acc    any
	cursor uint64
}

// instantiate returns a copy of op carrying fresh mutable state, suitable
// for one pipeline execution. Stateless ops are returned unchanged (state
// stays nil; the copy is cheap and avoids aliasing the template).
func (op Op) instantiate() Op {
	switch op.Kind {
	case OpScan:
		op.state = &opState{acc: op.seed}
	case OpTake, OpSkip:
		op.state = &opState{}
	case OpOpaque:
		if op.opaqueFactory != nil {
			op.opaqueFn = op.opaqueFactory()
		}
	}
	return op
}

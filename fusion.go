package nagare

import "context"

// faultyItem is what a base source's pull function returns in place of a
// real value when the underlying item already carries an error — e.g.
// FromResultChan adapting a Result[T] that IsError(). It lets an
// upstream fault flow through the same error-policy machinery as an
// in-chain operator fault, rather than hard-failing the whole pull.
type faultyItem struct{ err error }

// itemOutcome is the result of running the fused per-item function over
// one input value.
type itemOutcome struct {
	value    any
	emit     bool // false means "no value" (filtered, skipped, pairwise warm-up, rescued-away)
	done     bool // true means Take's quota is exhausted; caller must stop pulling entirely
	err      error
	terminal bool // true means policy is Terminate and err should close the stream
}

// applyItem walks ops in order against v, implementing the guarded
// per-item function (Variant A) when guarded is true, and the unchecked
// variant (Variant B, same semantics minus panic recovery) when false.
// Variant B's only real difference in Go is that it skips the recover()
// — Go has no unchecked-exception distinction at the call-site level the
// way the reference host language does, so the performance benefit is
// the guard's defer/recover pair rather than a try/catch.
func applyItem(ctx context.Context, ops []Op, pol policy, v any, guarded bool) (out itemOutcome) {
	if fi, ok := v.(faultyItem); ok {
		return resolveFault(pol, fi.err)
	}

	if guarded {
		defer func() {
			if r := recover(); r != nil {
				out = resolveFault(pol, asPanicError(r))
			}
		}()
	}

	cur := v
	for i := range ops {
		op := &ops[i]
		next, emit, done, err := evalOp(ctx, op, cur)
		if done {
			return itemOutcome{done: true}
		}
		if err != nil {
			if err == errSkipItem {
				return itemOutcome{emit: false}
			}
			return resolveFault(pol, err)
		}
		if !emit {
			return itemOutcome{emit: false}
		}
		cur = next
	}
	return itemOutcome{value: cur, emit: true}
}

// evalOp runs a single operator stage on v, returning the stage's
// semantics in a shape applyItem can interpret uniformly regardless of
// kind.
func evalOp(ctx context.Context, op *Op, v any) (out any, emit bool, done bool, err error) {
	switch op.Kind {
	case OpMap:
		out, err = op.mapFn(ctx, v)
		if err != nil {
			return nil, false, false, err
		}
		return out, true, false, nil

	case OpFilter:
		ok, err := op.filterFn(ctx, v)
		if err != nil {
			return nil, false, false, err
		}
		if !ok {
			return nil, false, false, nil
		}
		return v, true, false, nil

	case OpScan:
		acc, err := op.scanFn(ctx, op.state.acc, v)
		if err != nil {
			return nil, false, false, err
		}
		op.state.acc = acc
		return acc, true, false, nil

	case OpTake:
		if op.state.cursor >= op.n {
			return nil, false, true, nil
		}
		op.state.cursor++
		return v, true, false, nil

	case OpSkip:
		if op.state.cursor < op.n {
			op.state.cursor++
			return nil, false, false, nil
		}
		return v, true, false, nil

	case OpWasm:
		out, err = evalWasmScalar(op, v)
		if err != nil {
			return nil, false, false, err
		}
		return out, true, false, nil

	case OpOpaque:
		out, err = op.opaqueFn(ctx, v)
		if err != nil {
			return nil, false, false, err
		}
		return out, true, false, nil

	default:
		return v, true, false, nil
	}
}

// resolveFault applies the error policy to a triggering error, producing
// the itemOutcome applyItem should return.
func resolveFault(pol policy, err error) itemOutcome {
	switch pol.kind {
	case policyRescue:
		if recovered, ok := pol.rescue(err); ok {
			return itemOutcome{value: recovered, emit: true}
		}
		return itemOutcome{emit: false}
	case policyTerminate:
		return itemOutcome{err: err, terminal: true}
	case policyPropagate:
		return itemOutcome{emit: false, err: err}
	default: // policyDrop
		return itemOutcome{emit: false}
	}
}

func asPanicError(r any) error {
	if err, ok := r.(error); ok {
		return NewFault(OperatorFault, "panic", err)
	}
	return NewFault(OperatorFault, "panic", &panicValue{r})
}

type panicValue struct{ v any }

func (p *panicValue) Error() string { return fmtPanic(p.v) }

func fmtPanic(v any) string {
	return "recovered panic: " + toString(v)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ Error() string }); ok {
		return s.Error()
	}
	return "<non-string panic value>"
}

// pipelineStateless reports whether a flattened pipeline has no stateful
// operators (Scan, Take, Skip) — asyncCollectArray (async.go) uses it to
// choose concurrent dispatch over strictly sequential async iteration.
func pipelineStateless(ops []Op) bool {
	for _, op := range ops {
		if op.Kind == OpScan || op.Kind == OpTake || op.Kind == OpSkip {
			return false
		}
	}
	return true
}

// pipelineAsync reports whether any operator in ops was constructed via
// an *Async combinator. Nagare resolves async-ness statically, at
// pipeline-construction time, since Go callbacks have a fixed
// synchronous-or-context-aware shape chosen at the call site rather
// than a value that is ambiguously a
// promise until awaited.
func pipelineAsync(ops []Op) bool {
	for _, op := range ops {
		if op.Async {
			return true
		}
	}
	return false
}

// instantiateOps returns fresh per-pipeline-instance copies of ops, so
// every flatten() call gets its own Scan accumulator and Take/Skip
// cursors starting at zero.
func instantiateOps(ops []Op) []Op {
	out := make([]Op, len(ops))
	for i, op := range ops {
		out[i] = op.instantiate()
	}
	return out
}

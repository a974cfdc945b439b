package nagare

import "context"

// pipelineIterator drives generic per-item pulling over a flattened
// pipeline. It is the substrate for every finalizer except the array
// kernel fast path used by ToArray (arraykernel.go), since First/Last/
// Count/All/Some/Reduce all need genuine short-circuiting mid-pull.
type pipelineIterator struct {
	fl      flattened
	idx     int
	guarded bool

	closed     bool
	propagated error // first Propagate-policy error seen, surfaced by the finalizer once iteration completes
}

// newIterator flattens s and prepares an iterator over it. Variant
// selection for the per-item path follows dispatch rule 4 directly:
// Rescue/Terminate always run guarded (Variant A); Drop/Propagate run
// unchecked (Variant B) since there is no recovery to perform if a
// callback panics anyway — the panic simply crosses the package
// boundary, which is the Go-idiomatic analogue of an uncaught throw.
func newIterator[T any](ctx context.Context, s Stream[T]) (*pipelineIterator, error) {
	_ = ctx
	fl, err := flatten(&s)
	if err != nil {
		return nil, err
	}
	fl.ops = instantiateOps(fl.ops)
	guarded := fl.pol.kind == policyRescue || fl.pol.kind == policyTerminate
	return &pipelineIterator{fl: fl, guarded: guarded}, nil
}

func (it *pipelineIterator) pullRaw(ctx context.Context) (any, bool, error) {
	if it.fl.base.kind == baseArray {
		if it.idx >= it.fl.base.arr.Len() {
			return nil, false, nil
		}
		v := it.fl.base.arr.At(it.idx)
		it.idx++
		return v, true, nil
	}
	return it.fl.base.pull(ctx)
}

// next returns the next emitted value, or ok=false on completion. A
// non-nil err means a SourceFault or a Terminate-policy fault closed the
// stream; either way the iterator is closed afterward and every further
// call returns (nil, false, nil).
func (it *pipelineIterator) next(ctx context.Context) (any, bool, error) {
	if it.closed {
		return nil, false, nil
	}
	for {
		select {
		case <-ctx.Done():
			it.closed = true
			return nil, false, NewFault(CancelRequested, "stream", ctx.Err())
		default:
		}

		raw, present, perr := it.pullRaw(ctx)
		if perr != nil {
			it.closed = true
			return nil, false, NewFault(SourceFault, "source", perr)
		}
		if !present {
			it.closed = true
			return nil, false, nil
		}

		outcome := applyItem(ctx, it.fl.ops, it.fl.pol, raw, it.guarded)
		if outcome.done {
			it.closed = true
			return nil, false, nil
		}
		if outcome.terminal {
			it.closed = true
			return nil, false, outcome.err
		}
		if outcome.err != nil && it.propagated == nil {
			it.propagated = outcome.err
		}
		if !outcome.emit {
			continue
		}
		return outcome.value, true, nil
	}
}

// eligibleForArrayKernel implements dispatch rule 1: the array kernel is
// only ever considered when the base is array-like, there is at least
// one operator, fusion is enabled, the pipeline is synchronous, and the
// policy is Drop or Propagate (Rescue/Terminate always take the guarded
// per-item path — rule 4).
func eligibleForArrayKernel(fl flattened, cfg configSnapshot) bool {
	if fl.base.kind != baseArray || len(fl.ops) == 0 {
		return false
	}
	if !cfg.fusionEnabled || cfg.jitMode == JITOff {
		return false
	}
	if pipelineAsync(fl.ops) {
		return false
	}
	return fl.pol.kind == policyDrop || fl.pol.kind == policyPropagate
}

package nagare

import "context"

// runArrayKernel is the fused array-kernel fast path (Variant C): it
// walks arr directly, inlining operator semantics via applyItem rather
// than intermediating through the generic pullRaw/iterator machinery,
// and optionally unrolls the loop four items at a time.
//
// Unrolling is skipped whenever ops contains a Take, since Take
// introduces a global early break that is incompatible with evaluating
// several lanes before checking it — a lane past the cutoff must never
// be evaluated at all, let alone emitted.
func runArrayKernel(ctx context.Context, arr arrayLike, ops []Op, pol policy, unroll bool) (out []any, propagated error, err error) {
	n := arr.Len()
	out = make([]any, 0, n)
	i := 0

	if unroll && !opsContainTake(ops) {
		for ; i+kernelLaneWidth <= n; i += kernelLaneWidth {
			for lane := 0; lane < kernelLaneWidth; lane++ {
				v := arr.At(i + lane)
				outcome := applyItem(ctx, ops, pol, v, false)
				if outcome.terminal {
					return out, propagated, outcome.err
				}
				if outcome.err != nil && propagated == nil {
					propagated = outcome.err
				}
				if outcome.emit {
					out = append(out, outcome.value)
				}
			}
		}
	}

	for ; i < n; i++ {
		v := arr.At(i)
		outcome := applyItem(ctx, ops, pol, v, false)
		if outcome.done {
			return out, propagated, nil
		}
		if outcome.terminal {
			return out, propagated, outcome.err
		}
		if outcome.err != nil && propagated == nil {
			propagated = outcome.err
		}
		if outcome.emit {
			out = append(out, outcome.value)
		}
	}
	return out, propagated, nil
}

func opsContainTake(ops []Op) bool {
	for _, op := range ops {
		if op.Kind == OpTake {
			return true
		}
	}
	return false
}

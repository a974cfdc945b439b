package nagare

import (
	"context"
	"errors"
)

// StartWith prepends vals before delegating to s. Implemented as a new
// base source rather than an Op, since it changes what the *base*
// yields rather than transforming items already flowing through one —
// there is nothing downstream of it to fuse against until the prepended
// values are exhausted.
func StartWith[T any](s Stream[T], vals ...T) Stream[T] {
	i := 0
	pull := func(ctx context.Context) (any, bool, error) {
		if i < len(vals) {
			v := vals[i]
			i++
			return v, true, nil
		}
		return nil, false, errStartWithExhausted
	}
	prefix := newBase[T](baseSource{kind: basePull, pull: pull}, false)
	return Merge2Sequential(prefix, s)
}

// errStartWithExhausted is the internal sentinel StartWith's prefix
// source uses to hand off to the delegate stream; it never reaches a
// caller.
var errStartWithExhausted = errors.New("startwith prefix exhausted")

// Merge2Sequential drains a fully before switching to b, without
// interleaving — the plumbing StartWith needs and a useful primitive on
// its own for deterministic prefix/suffix composition.
func Merge2Sequential[T any](a, b Stream[T]) Stream[T] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		ai, aErr := newIterator(ctx, a)
		drainedA := false
		var bi *pipelineIterator
		return func(ctx context.Context) (any, bool, error) {
			if aErr != nil {
				err := aErr
				aErr = nil
				return nil, false, err
			}
			if !drainedA {
				v, ok, err := ai.next(ctx)
				if err != nil {
					if errors.Is(err, errStartWithExhausted) {
						drainedA = true
					} else {
						return nil, false, err
					}
				} else if ok {
					return v, true, nil
				} else {
					drainedA = true
				}
			}
			if bi == nil {
				it, err := newIterator(ctx, b)
				if err != nil {
					return nil, false, err
				}
				bi = it
			}
			return bi.next(ctx)
		}
	}
	return newBase[T](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

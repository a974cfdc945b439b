package nagare

import (
	"context"

	"go.uber.org/zap"
)

// ToArray materializes the pipeline into a slice, following the
// dispatch rules: the array kernel fast path when eligible, the
// bounded-concurrency async path when any operator is async, and the
// generic per-item iterator otherwise.
func (s Stream[T]) ToArray(ctx context.Context) ([]T, error) {
	fl, err := flatten(&s)
	if err != nil {
		return nil, err
	}
	fl.ops = instantiateOps(fl.ops)
	cfg := snapshotConfig()

	if pipelineAsync(fl.ops) {
		raw, propagated, err := asyncCollectArray(ctx, fl, cfg.asyncConcurrency)
		if err != nil {
			return nil, err
		}
		out := unboxAll[T](raw)
		if fl.pol.kind == policyPropagate && propagated != nil {
			return out, propagated
		}
		return out, nil
	}

	if eligibleForArrayKernel(fl, cfg) {
		unroll := cfg.jitMode == JITFast && fl.base.arr.Len() >= cfg.unrollThreshold
		raw, propagated, err := runArrayKernel(ctx, fl.base.arr, fl.ops, fl.pol, unroll)
		if err != nil {
			return nil, err
		}
		out := unboxAll[T](raw)
		if fl.pol.kind == policyPropagate && propagated != nil {
			return out, propagated
		}
		return out, nil
	}

	if !cfg.fusionEnabled {
		logger.Debug("fusion disabled by config, using generic iteration", zap.Int("ops", len(fl.ops)))
	}

	it := &pipelineIterator{fl: fl, guarded: fl.pol.kind == policyRescue || fl.pol.kind == policyTerminate}
	var out []T
	for {
		v, ok, err := it.next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		out = append(out, v.(T))
	}
	if fl.pol.kind == policyPropagate && it.propagated != nil {
		return out, it.propagated
	}
	return out, nil
}

// First returns the first emitted item, or ok=false if the stream
// completed with no items.
func (s Stream[T]) First(ctx context.Context) (v T, ok bool, err error) {
	it, err := newIterator(ctx, s)
	if err != nil {
		return v, false, err
	}
	raw, present, err := it.next(ctx)
	if err != nil {
		return v, false, err
	}
	if !present {
		return v, false, nil
	}
	return raw.(T), true, nil
}

// Last returns the final emitted item, or ok=false if the stream
// completed with no items.
func (s Stream[T]) Last(ctx context.Context) (v T, ok bool, err error) {
	it, err := newIterator(ctx, s)
	if err != nil {
		return v, false, err
	}
	for {
		raw, present, err := it.next(ctx)
		if err != nil {
			return v, ok, err
		}
		if !present {
			return v, ok, nil
		}
		v, ok = raw.(T), true
	}
}

// Count returns the number of emitted items.
func (s Stream[T]) Count(ctx context.Context) (int, error) {
	it, err := newIterator(ctx, s)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		_, present, err := it.next(ctx)
		if err != nil {
			return n, err
		}
		if !present {
			return n, nil
		}
		n++
	}
}

// All reports whether pred holds for every emitted item, short-circuiting
// on the first failure.
func (s Stream[T]) All(ctx context.Context, pred func(T) bool) (bool, error) {
	it, err := newIterator(ctx, s)
	if err != nil {
		return false, err
	}
	for {
		raw, present, err := it.next(ctx)
		if err != nil {
			return false, err
		}
		if !present {
			return true, nil
		}
		if !pred(raw.(T)) {
			return false, nil
		}
	}
}

// Some reports whether pred holds for at least one emitted item,
// short-circuiting on the first success.
func (s Stream[T]) Some(ctx context.Context, pred func(T) bool) (bool, error) {
	it, err := newIterator(ctx, s)
	if err != nil {
		return false, err
	}
	for {
		raw, present, err := it.next(ctx)
		if err != nil {
			return false, err
		}
		if !present {
			return false, nil
		}
		if pred(raw.(T)) {
			return true, nil
		}
	}
}

// Reduce folds every emitted item into an accumulator, seeded by seed.
// Unlike Scan, Reduce is a finalizer — it returns one value, not a
// stream — so it is a free function rather than a method, the same way
// Map and Scan must be free functions when Acc differs from T.
func Reduce[T, Acc any](ctx context.Context, s Stream[T], fn func(Acc, T) Acc, seed Acc) (Acc, error) {
	it, err := newIterator(ctx, s)
	if err != nil {
		return seed, err
	}
	acc := seed
	for {
		raw, present, err := it.next(ctx)
		if err != nil {
			return acc, err
		}
		if !present {
			return acc, nil
		}
		acc = fn(acc, raw.(T))
	}
}

// ToChan runs s on a background goroutine and streams results onto a
// channel, closing it on completion or ctx cancellation — a pull-based
// analogue of a ReadableStream conversion.
func (s Stream[T]) ToChan(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		it, err := newIterator(ctx, s)
		if err != nil {
			errc <- err
			return
		}
		for {
			v, ok, err := it.next(ctx)
			if err != nil {
				errc <- err
				return
			}
			if !ok {
				if it.propagated != nil {
					errc <- it.propagated
				}
				return
			}
			select {
			case out <- v.(T):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc
}

func unboxAll[T any](raw []any) []T {
	if raw == nil {
		return nil
	}
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out
}

package nagare

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// asyncCollectArray drains a pipeline whose operator chain was built
// with an *Async combinator (MapAsync/FilterAsync), for the ToArray
// finalizer. Nagare resolves async dispatch statically — a Go
// callback's sync-vs-context-aware shape is fixed at the call site, so
// there is no mid-iteration handoff to encode; this is simply the
// execution path chosen up front whenever pipelineAsync(ops) is true.
//
// Stateless pipelines get bounded-concurrency, order-preserving
// dispatch (default 256 in-flight). A pipeline carrying
// Scan/Take/Skip state falls back to strictly sequential async
// iteration: concurrent dispatch would race the shared accumulator or
// cursor, which no single-consumer pipeline is meant to tolerate.
func asyncCollectArray(ctx context.Context, fl flattened, concurrency int) (out []any, propagated error, err error) {
	if !pipelineStateless(fl.ops) {
		return asyncCollectSequential(ctx, fl)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	it := &pipelineIterator{fl: fl}
	var mu sync.Mutex
	outcomes := make([]itemOutcome, 0, 64)

	for {
		raw, present, perr := it.pullRaw(ctx)
		if perr != nil {
			_ = g.Wait()
			return nil, nil, NewFault(SourceFault, "source", perr)
		}
		if !present {
			break
		}
		v := raw
		slot := len(outcomes)
		outcomes = append(outcomes, itemOutcome{})
		g.Go(func() error {
			o := applyItem(gctx, fl.ops, fl.pol, v, false)
			mu.Lock()
			outcomes[slot] = o
			mu.Unlock()
			if o.terminal {
				return o.err
			}
			return nil
		})
	}

	if werr := g.Wait(); werr != nil {
		return nil, nil, werr
	}

	out = make([]any, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil && propagated == nil {
			propagated = o.err
		}
		if o.emit {
			out = append(out, o.value)
		}
	}
	return out, propagated, nil
}

// asyncCollectSequential awaits one item's full operator chain at a
// time, preserving the stateful guarantees a concurrent dispatch would
// break.
func asyncCollectSequential(ctx context.Context, fl flattened) ([]any, error, error) {
	it := &pipelineIterator{fl: fl, guarded: fl.pol.kind == policyRescue || fl.pol.kind == policyTerminate}
	var out []any
	for {
		v, ok, err := it.next(ctx)
		if err != nil {
			return out, it.propagated, err
		}
		if !ok {
			return out, it.propagated, nil
		}
		out = append(out, v)
	}
}

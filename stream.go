// Package nagare is a lazy, composable, pull-based stream-processing
// engine. A Stream[T] is single-consumer: chaining map/filter/scan/...
// returns a new Stream that owns the parent, and only the terminal
// finalizer (ToArray, First, Reduce, ...) actually pulls values.
//
// The operator chain is recorded as a flat, type-erased Op list (op.go)
// rather than walked as nested closures, so the fusion compiler
// (fusion.go, arraykernel.go) can recognize and specialize it the way a
// dynamically-tagged operator chain would in a host language with
// runtime codegen.
package nagare

import (
	"context"
	"sync/atomic"
)

// Stream is a lazy, pull-based, single-consumer sequence of T with an
// attached operator chain and error policy. Stream values are cheap to
// copy (they only hold pointers and a boxed Op); the real cost is paid
// once, at finalization.
type Stream[T any] struct {
	parent flattenable // non-nil for every node except a base source
	base   baseSource  // only meaningful when parent == nil
	op     Op
	hasOp  bool
	pol    policy

	consumed *consumedFlag
}

// flattenable lets flatten() walk a chain of Stream[T] nodes whose type
// parameter T changes from link to link (Map, Scan, Pairwise); the
// interface erases T so the walk can cross those boundaries.
type flattenable interface {
	flattenInto(acc *flattened)
}

// flattened is the (base, []Op, policy) triple that makes up a
// pipeline: a stream ready for execution with no parent links left to
// walk.
type flattened struct {
	base     baseSource
	ops      []Op
	pol      policy
	consumed *consumedFlag
}

// consumedFlag enforces single-consumption: a stream built over a
// non-reiterable base (channel, iterator, byte reader) rejects a second
// finalizer call; a stream over an array-like base is reiterable, since
// each finalization starts a fresh pull over the same backing slice and
// Op state is reinstantiated from scratch regardless.
type consumedFlag struct {
	done       atomic.Bool
	reiterable bool
}

func (s *Stream[T]) flattenInto(acc *flattened) {
	if s.parent != nil {
		s.parent.flattenInto(acc)
	} else {
		acc.base = s.base
		acc.consumed = s.consumed
	}
	if s.hasOp {
		acc.ops = append(acc.ops, s.op)
	}
}

// flatten walks s's chain into a single pipeline and marks it consumed,
// returning a SourceFault if s was already consumed and its base is not
// reiterable.
func flatten[T any](s *Stream[T]) (flattened, error) {
	acc := flattened{}
	s.flattenInto(&acc)
	acc.pol = s.pol

	if acc.consumed != nil {
		if !acc.consumed.reiterable && acc.consumed.done.Swap(true) {
			return flattened{}, NewFault(SourceFault, "stream", errAlreadyConsumed)
		}
		acc.consumed.done.Store(true)
	}
	return acc, nil
}

// childOp returns a new Stream[U] chained off s via op, with the given
// resulting policy. U may differ from T (Map/Scan/Pairwise) or match it
// (Filter/Take/Skip); both cases go through this helper since Op
// payloads are boxed regardless of T.
func childOp[T, U any](s *Stream[T], op Op, pol policy) Stream[U] {
	return Stream[U]{parent: s, op: op, hasOp: true, pol: pol}
}

// Filter keeps only items for which pred returns true. The error policy
// is preserved from the parent — Filter does not change T, so it is not
// a "type-changing" operator under the chain-flattening rules.
func (s Stream[T]) Filter(pred func(T) (bool, error)) Stream[T] {
	op := Op{Kind: OpFilter, Label: "filter", filterFn: func(_ context.Context, v any) (bool, error) {
		return pred(v.(T))
	}}
	return childOp[T, T](&s, op, s.pol)
}

// FilterAsync is Filter for a predicate that itself blocks on ctx (I/O,
// RPC, ...). Marking Async statically lets the dispatcher route the
// whole pipeline through the async execution path at construction time,
// rather than discovering the need for it mid-iteration.
func (s Stream[T]) FilterAsync(pred func(context.Context, T) (bool, error)) Stream[T] {
	op := Op{Kind: OpFilter, Label: "filter", Async: true, filterFn: func(ctx context.Context, v any) (bool, error) {
		return pred(ctx, v.(T))
	}}
	return childOp[T, T](&s, op, s.pol)
}

// Take passes through at most the first n items, then ends the stream —
// short-circuiting evaluation of every later stage for item n+1 onward,
// not merely dropping items past n.
func (s Stream[T]) Take(n int) Stream[T] {
	op := Op{Kind: OpTake, Label: "take", n: clampNonNegative(n)}
	return childOp[T, T](&s, op, s.pol)
}

// Skip drops the first n items, then passes everything through. Skip's
// quota is consumed before any downstream stage runs on a given item.
func (s Stream[T]) Skip(n int) Stream[T] {
	op := Op{Kind: OpSkip, Label: "skip", n: clampNonNegative(n)}
	return childOp[T, T](&s, op, s.pol)
}

// Rescue installs a recovery handler: when any upstream or downstream
// operator fault occurs, h is called with the triggering error, and if
// it reports ok, the recovered value is emitted in place of the failed
// item (the remaining operators are not re-run on the recovered value).
func (s Stream[T]) Rescue(h func(error) (T, bool)) Stream[T] {
	child := s
	child.parent = &s
	child.hasOp = false
	child.pol = RescueErrors(h).internal
	return child
}

// TerminateOnErrorMode makes any subsequent operator fault close the
// stream and surface the error to the finalizer immediately.
func (s Stream[T]) TerminateOnErrorMode() Stream[T] {
	child := s
	child.parent = &s
	child.hasOp = false
	child.pol = TerminateOnError[T]().internal
	return child
}

// Map transforms every item from T to U. Map is type-changing, so the
// child stream's error policy resets to Drop regardless of the parent's
// policy — a Rescue or Terminate set above a Map does not reach below it
// unless re-applied on the child.
func Map[T, U any](s Stream[T], fn func(T) (U, error)) Stream[U] {
	op := Op{Kind: OpMap, Label: "map", mapFn: func(_ context.Context, v any) (any, error) {
		return fn(v.(T))
	}}
	return childOp[T, U](&s, op, policy{kind: policyDrop})
}

// MapAsync is Map for a transform that blocks on ctx.
func MapAsync[T, U any](s Stream[T], fn func(context.Context, T) (U, error)) Stream[U] {
	op := Op{Kind: OpMap, Label: "map", Async: true, mapFn: func(ctx context.Context, v any) (any, error) {
		return fn(ctx, v.(T))
	}}
	return childOp[T, U](&s, op, policy{kind: policyDrop})
}

// Scan emits the running accumulator: seed∘x1, (seed∘x1)∘x2, ... The
// seed itself is never emitted (prepend it with StartWith if needed).
// Type-changing, so the child policy resets to Drop.
func Scan[T, Acc any](s Stream[T], fn func(Acc, T) (Acc, error), seed Acc) Stream[Acc] {
	op := Op{Kind: OpScan, Label: "scan", seed: seed, scanFn: func(_ context.Context, acc, v any) (any, error) {
		return fn(acc.(Acc), v.(T))
	}}
	return childOp[T, Acc](&s, op, policy{kind: policyDrop})
}

// Pair is the element type emitted by Pairwise.
type Pair[T any] struct {
	Prev, Curr T
}

// Pairwise emits (previous, current) for every item after the first;
// the first item produces no emission. Implemented as an Opaque stage
// with a factory-produced closure so each pipeline instantiation starts
// with a fresh "have we seen a previous item" slate.
func Pairwise[T any](s Stream[T]) Stream[Pair[T]] {
	op := Op{Kind: OpOpaque, Label: "pairwise", opaqueFactory: func() func(context.Context, any) (any, error) {
		var have bool
		var prev T
		return func(_ context.Context, v any) (any, error) {
			cur := v.(T)
			if !have {
				have = true
				prev = cur
				return nil, errSkipItem
			}
			p := Pair[T]{Prev: prev, Curr: cur}
			prev = cur
			return p, nil
		}
	}}
	return childOp[T, Pair[T]](&s, op, policy{kind: policyDrop})
}

func clampNonNegative(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

package nagare

import (
	"context"
	"io"
	"time"
)

// baseKind distinguishes the one shape that unlocks the array kernel fast
// path (dense, random-access, known length) from everything else, which
// is modeled uniformly as a blocking pull function regardless of whether
// it is backed by a channel, an async iterator, or a byte reader.
type baseKind int

const (
	baseArray baseKind = iota
	basePull
)

// arrayLike is a dense, random-access, known-length source — the only
// shape eligible for the array-kernel fast path (arraykernel.go).
type arrayLike interface {
	Len() int
	At(i int) any
}

type sliceArray[T any] struct{ s []T }

func (a sliceArray[T]) Len() int     { return len(a.s) }
func (a sliceArray[T]) At(i int) any { return a.s[i] }

// baseSource is the root of a flattened pipeline.
type baseSource struct {
	kind baseKind
	arr  arrayLike

	// pull blocks until the next value is available, ctx is done, or the
	// source completes. ok is false exactly once, on completion; a
	// non-nil err means the source faulted rather than completed cleanly.
	pull func(ctx context.Context) (v any, ok bool, err error)
}

func newBase[T any](b baseSource, reiterable bool) Stream[T] {
	return Stream[T]{
		base:     b,
		pol:      policy{kind: policyDrop},
		consumed: &consumedFlag{reiterable: reiterable},
	}
}

// From builds a stream over a slice, eligible for the array kernel fast
// path. The slice is re-iterable: finalizing the returned stream more
// than once is allowed, each time pulling from index 0.
func From[T any](items []T) Stream[T] {
	return newBase[T](baseSource{kind: baseArray, arr: sliceArray[T]{items}}, true)
}

// Of is From with a variadic call shape.
func Of[T any](items ...T) Stream[T] {
	return From(items)
}

// Empty is a stream with no items.
func Empty[T any]() Stream[T] {
	return From[T](nil)
}

// Range produces start, start+step, ... up to but excluding end. A zero
// or omitted step defaults to 1; a negative step counts down.
func Range(start, end int, step ...int) Stream[int] {
	s := 1
	if len(step) > 0 && step[0] != 0 {
		s = step[0]
	}
	var out []int
	if s > 0 {
		for v := start; v < end; v += s {
			out = append(out, v)
		}
	} else {
		for v := start; v > end; v += s {
			out = append(out, v)
		}
	}
	return From(out)
}

// FromChan builds a stream that pulls from ch until it is closed. Not
// re-iterable: a channel cannot be rewound.
func FromChan[T any](ch <-chan T) Stream[T] {
	pull := func(ctx context.Context) (any, bool, error) {
		select {
		case v, ok := <-ch:
			if !ok {
				return nil, false, nil
			}
			return v, true, nil
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	return newBase[T](baseSource{kind: basePull, pull: pull}, false)
}

// Interval emits 0, 1, 2, ... on every tick of the clock, forever; pair
// it with Take to bound it. Not re-iterable — a live ticker cannot be
// rewound, and a fresh Interval call is cheap if a second run is needed.
func Interval(d time.Duration, clk Clock) Stream[int] {
	var ticker Ticker
	i := 0
	pull := func(ctx context.Context) (any, bool, error) {
		if ticker == nil {
			ticker = clk.NewTicker(d)
		}
		select {
		case <-ticker.C():
			v := i
			i++
			return v, true, nil
		case <-ctx.Done():
			ticker.Stop()
			return nil, false, ctx.Err()
		}
	}
	return newBase[int](baseSource{kind: basePull, pull: pull}, false)
}

// FromByteReader reads fixed-size chunks from r, reusing a single
// internal buffer per pull and copying only the bytes actually read —
// mirroring the bring-your-own-buffer contract of a chunked byte reader
// rather than allocating a fresh chunkSize buffer on every pull.
func FromByteReader(r io.Reader, chunkSize int) Stream[[]byte] {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	buf := make([]byte, chunkSize)
	pull := func(_ context.Context) (any, bool, error) {
		n, err := r.Read(buf)
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			return out, true, nil
		}
		if err == nil || err == io.EOF {
			return nil, false, nil
		}
		return nil, false, err
	}
	return newBase[[]byte](baseSource{kind: basePull, pull: pull}, false)
}

// FromResultChan adapts the channel-native Result[T] layer (result.go)
// into the lazy Stream[T] core: a Result carrying an error converts via
// StreamError.ToFault into the same fault taxonomy a map callback's
// error would raise, subject to the stream's error policy either way.
func FromResultChan[T any](ch <-chan Result[T]) Stream[T] {
	pull := func(ctx context.Context) (any, bool, error) {
		for {
			select {
			case r, ok := <-ch:
				if !ok {
					return nil, false, nil
				}
				if r.IsError() {
					return faultyItem{err: r.Error().ToFault()}, true, nil
				}
				return r.Value(), true, nil
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		}
	}
	return newBase[T](baseSource{kind: basePull, pull: pull}, false)
}

// ToResultChan runs s to completion on a background goroutine, emitting
// each item (or item-level fault) as a Result[T] on the returned
// channel, closing it when s completes or ctx is cancelled — the
// reverse adapter to FromResultChan, letting a Stream[T] segment feed
// a channel-native processor (Mapper, Throttle, Debounce).
func (s Stream[T]) ToResultChan(ctx context.Context) <-chan Result[T] {
	out := make(chan Result[T])
	go func() {
		defer close(out)
		var zero T
		it, err := newIterator(ctx, s)
		if err != nil {
			select {
			case out <- NewError(zero, err, "stream"):
			case <-ctx.Done():
			}
			return
		}
		for {
			v, ok, err := it.next(ctx)
			if err != nil {
				select {
				case out <- NewError(zero, err, "stream"):
				case <-ctx.Done():
				}
				return
			}
			if !ok {
				if it.propagated != nil {
					select {
					case out <- NewError(zero, it.propagated, "stream"):
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case out <- NewSuccess(v.(T)):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

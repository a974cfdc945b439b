package nagare

import (
	"context"
	"sync"
	"time"
)

// lazyPull defers starting a producer until the first pull, the way
// every other Stream[T] source stays inert until a finalizer actually
// consumes it. start runs at most once and returns the real pull
// function backing the operator's background goroutine.
func lazyPull(start func(ctx context.Context) func(context.Context) (any, bool, error)) func(context.Context) (any, bool, error) {
	var once sync.Once
	var real func(context.Context) (any, bool, error)
	return func(ctx context.Context) (any, bool, error) {
		once.Do(func() { real = start(ctx) })
		return real(ctx)
	}
}

// chanPull adapts a plain result/error channel pair into the baseSource
// pull contract.
func chanPull[T any](out <-chan T, errc <-chan error) func(context.Context) (any, bool, error) {
	return func(ctx context.Context) (any, bool, error) {
		select {
		case v, ok := <-out:
			if !ok {
				return nil, false, nil
			}
			return v, true, nil
		case err, ok := <-errc:
			if ok && err != nil {
				return nil, false, err
			}
			return nil, false, nil
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

// Debounce resets a one-shot timer on every upstream item; when the
// timer fires with no newer item having arrived, the last value is
// emitted. Pending state is flushed when upstream completes. Grounded
// on the Debounce processor's (debounce.go) timer-reset loop, adapted
// from a channel-in/channel-out Processor to a lazily-started Stream[T]
// producer and from the nagare/clock package to clockz.
func (s Stream[T]) Debounce(d time.Duration, clk Clock) Stream[T] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		in, inErr := s.ToChan(ctx)
		out := make(chan T)
		errc := make(chan error, 1)

		go func() {
			defer close(out)
			var mu sync.Mutex
			var timer Timer
			var pending T
			var hasPending bool

			emit := func() {
				mu.Lock()
				defer mu.Unlock()
				if hasPending {
					select {
					case out <- pending:
						hasPending = false
					case <-ctx.Done():
					}
				}
			}

			for {
				select {
				case item, ok := <-in:
					if !ok {
						if timer != nil {
							timer.Stop()
						}
						emit()
						return
					}
					mu.Lock()
					pending = item
					hasPending = true
					if timer != nil {
						timer.Stop()
					}
					timer = clk.AfterFunc(d, emit)
					mu.Unlock()
				case err := <-inErr:
					if err != nil {
						select {
						case errc <- err:
						default:
						}
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return chanPull[T](out, errc)
	}
	return newBase[T](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

// Throttle emits the first item, then drops items arriving within d of
// the last emission. Grounded on the leading-edge style of Throttle
// (throttle.go).
func (s Stream[T]) Throttle(d time.Duration, clk Clock) Stream[T] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		in, inErr := s.ToChan(ctx)
		out := make(chan T)
		errc := make(chan error, 1)

		go func() {
			defer close(out)
			var lastEmit time.Time
			var have bool
			for {
				select {
				case item, ok := <-in:
					if !ok {
						return
					}
					now := clk.Now()
					if !have || now.Sub(lastEmit) >= d {
						have = true
						lastEmit = now
						select {
						case out <- item:
						case <-ctx.Done():
							return
						}
					}
				case err := <-inErr:
					if err != nil {
						select {
						case errc <- err:
						default:
						}
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return chanPull[T](out, errc)
	}
	return newBase[T](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

// Buffer accumulates upstream items into fixed-size chunks, flushing a
// short final chunk on completion. Grounded on a size-triggered batcher
// flush path, simplified to a pure count trigger (no latency trigger —
// that is BufferTime's job).
func Buffer[T any](s Stream[T], size int) Stream[[]T] {
	if size <= 0 {
		size = 1
	}
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		in, inErr := s.ToChan(ctx)
		out := make(chan []T)
		errc := make(chan error, 1)

		go func() {
			defer close(out)
			buf := make([]T, 0, size)
			flush := func() bool {
				if len(buf) == 0 {
					return true
				}
				chunk := buf
				buf = make([]T, 0, size)
				select {
				case out <- chunk:
					return true
				case <-ctx.Done():
					return false
				}
			}
			for {
				select {
				case item, ok := <-in:
					if !ok {
						flush()
						return
					}
					buf = append(buf, item)
					if len(buf) >= size {
						if !flush() {
							return
						}
					}
				case err := <-inErr:
					if err != nil {
						select {
						case errc <- err:
						default:
						}
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return chanPull[[]T](out, errc)
	}
	return newBase[[]T](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

// BufferTime opens a window on the first arriving item and flushes on
// every subsequent clock tick, plus a final flush on completion.
// Grounded on a tumbling-window processor's timer-driven flush loop,
// adapted to a plain []T output rather than a Result[T]-carrying
// Window type.
func BufferTime[T any](s Stream[T], d time.Duration, clk Clock) Stream[[]T] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		in, inErr := s.ToChan(ctx)
		out := make(chan []T)
		errc := make(chan error, 1)

		go func() {
			defer close(out)
			var mu sync.Mutex
			buf := make([]T, 0)
			var ticker Ticker
			var tick <-chan time.Time
			defer func() {
				if ticker != nil {
					ticker.Stop()
				}
			}()

			flush := func() bool {
				mu.Lock()
				if len(buf) == 0 {
					mu.Unlock()
					return true
				}
				chunk := buf
				buf = nil
				mu.Unlock()
				select {
				case out <- chunk:
					return true
				case <-ctx.Done():
					return false
				}
			}

			for {
				select {
				case item, ok := <-in:
					if !ok {
						flush()
						return
					}
					mu.Lock()
					buf = append(buf, item)
					mu.Unlock()
					if ticker == nil {
						ticker = clk.NewTicker(d)
						tick = ticker.C()
					}
				case <-tick:
					if !flush() {
						return
					}
				case err := <-inErr:
					if err != nil {
						select {
						case errc <- err:
						default:
						}
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return chanPull[[]T](out, errc)
	}
	return newBase[[]T](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

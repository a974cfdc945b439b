package nagare

import (
	"context"
	"sync"
)

// Merge interleaves s with others in arrival order — whichever source
// produces its next item first is the one forwarded, Promise.race-like.
// Per-source order is preserved; there is no cross-source ordering
// guarantee beyond arrival time. Completes once every source has
// completed. Grounded on the supervision-loop shape of a fan-in over
// Result[T] channels, adapted to the Stream[T] core.
func Merge[T any](s Stream[T], others ...Stream[T]) Stream[T] {
	all := append([]Stream[T]{s}, others...)
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		out := make(chan T)
		errc := make(chan error, len(all))

		var wg sync.WaitGroup
		wg.Add(len(all))
		for _, src := range all {
			src := src
			go func() {
				defer wg.Done()
				in, inErr := src.ToChan(ctx)
				for {
					select {
					case v, ok := <-in:
						if !ok {
							in = nil
							if inErr == nil {
								return
							}
							continue
						}
						select {
						case out <- v:
						case <-ctx.Done():
							return
						}
					case err, ok := <-inErr:
						if !ok {
							inErr = nil
							if in == nil {
								return
							}
							continue
						}
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
		}

		go func() {
			wg.Wait()
			close(out)
			close(errc)
		}()

		return chanPull[T](out, errc)
	}
	return newBase[T](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

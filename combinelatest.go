package nagare

import "context"

// Latest2 is the tuple CombineLatest2 emits.
type Latest2[A, B any] struct {
	A A
	B B
}

// CombineLatest2 emits a Latest2 every time either source produces a
// value, carrying the most recently seen value from the other source —
// but only once both have produced at least one value. Grounded on the
// teacher's FanIn supervision loop (fanin.go), adapted to track
// per-source latest state instead of forwarding every item as-is.
func CombineLatest2[A, B any](a Stream[A], b Stream[B]) Stream[Latest2[A, B]] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		ain, aErrc := a.ToChan(ctx)
		bin, bErrc := b.ToChan(ctx)
		out := make(chan Latest2[A, B])
		errc := make(chan error, 2)

		go func() {
			defer close(out)
			defer close(errc)
			var latestA A
			var latestB B
			var haveA, haveB bool

			for ain != nil || bin != nil {
				select {
				case v, ok := <-ain:
					if !ok {
						ain = nil
						continue
					}
					latestA, haveA = v, true
					if haveB {
						select {
						case out <- Latest2[A, B]{A: latestA, B: latestB}:
						case <-ctx.Done():
							return
						}
					}
				case v, ok := <-bin:
					if !ok {
						bin = nil
						continue
					}
					latestB, haveB = v, true
					if haveA {
						select {
						case out <- Latest2[A, B]{A: latestA, B: latestB}:
						case <-ctx.Done():
							return
						}
					}
				case err, ok := <-aErrc:
					if ok && err != nil {
						select {
						case errc <- err:
						default:
						}
						return
					}
				case err, ok := <-bErrc:
					if ok && err != nil {
						select {
						case errc <- err:
						default:
						}
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return chanPull[Latest2[A, B]](out, errc)
	}
	return newBase[Latest2[A, B]](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

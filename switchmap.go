package nagare

import (
	"context"
	"sync"
)

// SwitchMap maps each outer item to an inner stream via fn; a new outer
// item cancels whatever inner is currently active and switches to the
// new one — output after a switch belongs only to the latest inner.
// Completes once the outer has completed and the last inner has
// finished draining. Needs a supervisor goroutine (unlike ConcatMap's
// pure pull composition) since the previous inner must be actively
// cancelled the instant a new outer item arrives, not merely abandoned.
func SwitchMap[T, U any](s Stream[T], fn func(T) Stream[U]) Stream[U] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		outerIn, outerErrc := s.ToChan(ctx)
		out := make(chan U)
		errc := make(chan error, 1)

		go func() {
			defer close(out)
			defer close(errc)

			var wg sync.WaitGroup
			var cancelInner context.CancelFunc
			var innerDone chan struct{}

			stopInner := func() {
				if cancelInner != nil {
					cancelInner()
					<-innerDone
					cancelInner = nil
				}
			}
			defer stopInner()

			for outerIn != nil || outerErrc != nil {
				select {
				case v, ok := <-outerIn:
					if !ok {
						outerIn = nil
						continue
					}
					stopInner()
					innerCtx, cancel := context.WithCancel(ctx)
					cancelInner = cancel
					done := make(chan struct{})
					innerDone = done
					wg.Add(1)
					go runSwitchMapInner(innerCtx, done, &wg, fn(v), out, errc)
				case err, ok := <-outerErrc:
					if !ok {
						outerErrc = nil
						continue
					}
					if err != nil {
						stopInner()
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
			wg.Wait()
		}()

		return chanPull[U](out, errc)
	}
	return newBase[U](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

func runSwitchMapInner[U any](ctx context.Context, done chan struct{}, wg *sync.WaitGroup, inner Stream[U], out chan<- U, errc chan<- error) {
	defer wg.Done()
	defer close(done)
	in, inErrc := inner.ToChan(ctx)
	for {
		select {
		case v, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		case err, ok := <-inErrc:
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
}

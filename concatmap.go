package nagare

import "context"

// ConcatMap maps each outer item to an inner stream via fn and fully
// drains that inner stream before pulling the next outer item — no
// interleaving between successive inners, unlike SwitchMap. Implemented
// as a pull-composition rather than a background goroutine: concatMap
// needs no queue between producer and consumer since it never runs two
// inners concurrently.
func ConcatMap[T, U any](s Stream[T], fn func(T) Stream[U]) Stream[U] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		outer, outerErr := newIterator(ctx, s)
		var inner *pipelineIterator
		return func(ctx context.Context) (any, bool, error) {
			if outerErr != nil {
				err := outerErr
				outerErr = nil
				return nil, false, err
			}
			for {
				if inner != nil {
					v, ok, err := inner.next(ctx)
					if err != nil {
						return nil, false, err
					}
					if ok {
						return v, true, nil
					}
					inner = nil
				}
				ov, ok, err := outer.next(ctx)
				if err != nil {
					return nil, false, err
				}
				if !ok {
					return nil, false, nil
				}
				it, err := newIterator(ctx, fn(ov.(T)))
				if err != nil {
					return nil, false, err
				}
				inner = it
			}
		}
	}
	return newBase[U](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

package nagare

import "context"

// Pair2 is the tuple Zip2 emits.
type Pair2[A, B any] struct {
	A A
	B B
}

// Zip2 pairs the n-th value of a with the n-th value of b, completing as
// soon as either source completes (a short tail on one side is simply
// dropped, never buffered). Sequential rather than arrival-ordered — a
// fan-in pattern does not fit here since zip must wait for a matched
// pair rather than forwarding whichever side is ready first.
func Zip2[A, B any](a Stream[A], b Stream[B]) Stream[Pair2[A, B]] {
	start := func(ctx context.Context) func(context.Context) (any, bool, error) {
		ai, aErr := newIterator(ctx, a)
		bi, bErr := newIterator(ctx, b)
		return func(ctx context.Context) (any, bool, error) {
			if aErr != nil {
				err := aErr
				aErr = nil
				return nil, false, err
			}
			if bErr != nil {
				err := bErr
				bErr = nil
				return nil, false, err
			}
			av, aok, err := ai.next(ctx)
			if err != nil {
				return nil, false, err
			}
			if !aok {
				return nil, false, nil
			}
			bv, bok, err := bi.next(ctx)
			if err != nil {
				return nil, false, err
			}
			if !bok {
				return nil, false, nil
			}
			return Pair2[A, B]{A: av.(A), B: bv.(B)}, true, nil
		}
	}
	return newBase[Pair2[A, B]](baseSource{kind: basePull, pull: lazyPull(start)}, false)
}

package nagare

import "context"

// Distinct drops items equal to the immediately previous *emitted*
// value (distinctUntilChanged). The first item is always emitted —
// there is no sentinel "no previous value yet" comparison that could be
// mistaken for a real value, resolving the ambiguity the reference
// implementation's fresh-sentinel-per-call left open in favor of
// standard RxJS behavior.
func Distinct[T comparable](s Stream[T]) Stream[T] {
	op := Op{Kind: OpOpaque, Label: "distinctUntilChanged", opaqueFactory: func() func(context.Context, any) (any, error) {
		var have bool
		var prev T
		return func(_ context.Context, v any) (any, error) {
			cur := v.(T)
			if have && cur == prev {
				return nil, errSkipItem
			}
			have = true
			prev = cur
			return cur, nil
		}
	}}
	return childOp[T, T](&s, op, s.pol)
}

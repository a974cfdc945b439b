package nagare

import (
	"context"
	"time"
)

// MapRetry is Map, but a fn error triggers up to maxAttempts retries of
// that same item with linear backoff (delay*attempt) before the
// resulting error reaches the stream's error policy. Grounded on a
// Retry[T]-style backoff loop, simplified from exponential-with-jitter
// to a linear schedule and narrowed from "wraps any processor" to
// "wraps the final emit step" — retry here cannot repeat anything
// upstream of fn, only fn itself.
func MapRetry[T, U any](s Stream[T], fn func(T) (U, error), maxAttempts int, delay time.Duration, clk Clock) Stream[U] {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	op := Op{Kind: OpMap, Label: "mapRetry", mapFn: func(ctx context.Context, v any) (any, error) {
		var lastErr error
		for attempt := 1; attempt <= maxAttempts+1; attempt++ {
			out, err := fn(v.(T))
			if err == nil {
				return out, nil
			}
			lastErr = err
			if attempt > maxAttempts {
				break
			}
			timer := clk.NewTimer(delay * time.Duration(attempt))
			select {
			case <-timer.C():
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}
		return nil, lastErr
	}}
	return childOp[T, U](&s, op, policy{kind: policyDrop})
}

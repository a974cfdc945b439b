// Package nagare provides a lazy, pull-based stream engine (Stream[T],
// see stream.go) alongside a small channel-native layer for code that
// still wants to run a single stage against plain channels rather than
// build a pipeline: Mapper, Throttle and Debounce each transform an
// input channel to an output channel directly and satisfy Processor.
package nagare

import "context"

// Processor is the shared shape of the channel-native stages (Mapper,
// Throttle, Debounce): it transforms an input channel of type In to an
// output channel of type Out. Implementations close the output channel
// when the input channel closes and respect context cancellation.
type Processor[In, Out any] interface {
	Process(ctx context.Context, in <-chan In) <-chan Out
	Name() string
}

var (
	_ Processor[int, int]       = (*Throttle[int])(nil)
	_ Processor[int, int]       = (*Debounce[int])(nil)
	_ Processor[string, string] = (*Mapper[string, string])(nil)
)

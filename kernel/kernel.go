// Package kernel is the external numeric-kernel contract. The engine
// core never implements a kernel itself — it only calls one by name,
// passing dense float32 batches by view and accepting a new or
// same-shape batch back. Registering a kernel is how a host program
// plugs in SIMD, GPU, or WASM-backed numeric transforms without the
// core depending on any of those technologies.
package kernel

import (
	"fmt"
	"sync"
)

// Float32Batch is a dense, contiguous view over float32 values. It is
// passed by reference to Runner.Run so the runner can operate
// zero-copy where the underlying implementation allows it; a runner
// that must produce a differently-shaped result returns a new batch
// instead of mutating in place.
type Float32Batch struct {
	Data []float32
}

// Len returns the number of elements in the batch.
func (b Float32Batch) Len() int { return len(b.Data) }

// Runner executes one named numeric-batch transform.
type Runner interface {
	// Run applies the named kernel to input with the given params,
	// returning a new or same-shape batch. Runners are synchronous and
	// may be called concurrently by independent pipelines.
	Run(name string, input Float32Batch, params map[string]any) (Float32Batch, error)
}

// ScalarRunner is an optional extension a Runner may also implement, for
// operators that apply the kernel one element at a time rather than over
// a full batch. Nagare's MapWasm goes through RunScalar on every
// execution path, the array-kernel Variant C included, since each of
// them applies operators one item at a time.
type ScalarRunner interface {
	RunScalar(name string, input float32, params map[string]any) (float32, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Runner{}
)

// Register installs runner under name, replacing any previous runner
// registered under the same name. Safe to call concurrently.
func Register(name string, runner Runner) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = runner
}

// Unregister removes the runner registered under name, if any.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, name)
}

// Lookup returns the runner registered under name, if any.
func Lookup(name string) (Runner, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[name]
	return r, ok
}

// IsRegistered reports whether a runner is registered under name.
func IsRegistered(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// ErrNotRegistered is returned (wrapped) when a kernel is invoked under
// a name with no registered Runner.
type ErrNotRegistered struct{ Name string }

func (e *ErrNotRegistered) Error() string {
	return fmt.Sprintf("kernel: %q not registered", e.Name)
}

// Run looks up name and calls its Runner, or returns ErrNotRegistered.
func Run(name string, input Float32Batch, params map[string]any) (Float32Batch, error) {
	r, ok := Lookup(name)
	if !ok {
		return Float32Batch{}, &ErrNotRegistered{Name: name}
	}
	return r.Run(name, input, params)
}

// RunScalar looks up name and calls its ScalarRunner, falling back to a
// one-element Run call when the runner does not implement ScalarRunner.
func RunScalar(name string, input float32, params map[string]any) (float32, error) {
	r, ok := Lookup(name)
	if !ok {
		return 0, &ErrNotRegistered{Name: name}
	}
	if sr, ok := r.(ScalarRunner); ok {
		return sr.RunScalar(name, input, params)
	}
	out, err := r.Run(name, Float32Batch{Data: []float32{input}}, params)
	if err != nil {
		return 0, err
	}
	if out.Len() != 1 {
		return 0, fmt.Errorf("kernel %q: scalar fallback expected 1 output, got %d", name, out.Len())
	}
	return out.Data[0], nil
}

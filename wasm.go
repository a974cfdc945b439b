package nagare

import "github.com/nagare-run/nagare/kernel"

// MapWasm applies a named external numeric kernel to every item of a
// float32 stream. Per the kernel contract, a missing kernel is a
// construction-time failure, not a lazy per-item one — discovering at
// the first pull that no kernel exists would mean partially-consuming a
// possibly non-reiterable source for nothing.
func MapWasm(s Stream[float32], name string, params map[string]any) (Stream[float32], error) {
	if !kernel.IsRegistered(name) {
		return Stream[float32]{}, NewFault(KernelFault, name, &kernel.ErrNotRegistered{Name: name})
	}
	op := Op{Kind: OpWasm, Label: "wasm:" + name, wasmName: name, wasmParams: params}
	return childOp[float32, float32](&s, op, s.pol), nil
}

// evalWasmScalar runs the named kernel over a single float32 value, used
// by the per-item fusion path (Variant A/B) and equally by the array-kernel
// path (arraykernel.go), which also applies operators item by item through
// applyItem; no path calls the kernel once over the whole batch.
func evalWasmScalar(op *Op, v any) (any, error) {
	f, ok := v.(float32)
	if !ok {
		return nil, NewFault(TypeFault, op.Label, errNotFloat32)
	}
	out, err := kernel.RunScalar(op.wasmName, f, op.wasmParams)
	if err != nil {
		return nil, NewFault(KernelFault, op.Label, err)
	}
	return out, nil
}

//go:build wasm

package wasm

import (
	"unsafe"

	"github.com/guestkit/guestkit"
)

//go:wasmexport alloc
func alloc(size uint32) uintptr {
	return arena.Alloc(int(size))
}

//go:wasmexport handle
func handle(ptr uintptr, size uint32) uint64 {
	// View the host-written bytes in place. A zero size is an empty input,
	// not an error.
	var input []byte
	if size > 0 {
		input = unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size)
	}

	resp := handler.Handle(input)

	// The response goes into a fresh arena buffer, never the input buffer,
	// so it stays valid after this call returns.
	out := arena.AllocBytes(resp)
	return uint64(guestkit.NewRef(out, len(resp)))
}

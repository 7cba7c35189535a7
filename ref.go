package guestkit

import "fmt"

// Ref is a packed reference to a buffer in guest linear memory. The higher
// 32 bits hold the buffer's address, the lower 32 bits hold its size in
// bytes. It is the single value through which the guest describes a buffer
// to the host, since the boundary only carries integers.
//
// The 32-bit limit on both halves is a hard constraint of wasm32 linear
// memory. NewRef truncates wider inputs instead of failing.
type Ref uint64

// NewRef packs a buffer's address and size into a Ref.
func NewRef(ptr uintptr, size int) Ref {
	return Ref(uint64(uint32(ptr))<<32 | uint64(uint32(size)))
}

// Ptr returns the address of the referenced buffer.
func (r Ref) Ptr() uint32 { return uint32(r >> 32) }

// Size returns the size of the referenced buffer in bytes.
func (r Ref) Size() uint32 { return uint32(r) }

// IsZero reports whether the reference describes no buffer at all.
func (r Ref) IsZero() bool { return r == 0 }

func (r Ref) String() string {
	return fmt.Sprintf("ref{ptr: %d, size: %d}", r.Ptr(), r.Size())
}

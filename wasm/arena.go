package wasm

import (
	"fmt"
	"unsafe"
)

// DefaultArenaSize is the capacity of the arena backing the alloc export.
const DefaultArenaSize = 1 << 20 // 1MB

// arenaAlign is the alignment of every allocation handed out by the arena.
const arenaAlign = 8

// Arena is a one-way allocator over a fixed region of guest memory. It
// hands out bump-allocated slices of the region and never reclaims them;
// buffers stay valid until the guest instance is torn down or Reset is
// called. The backing region is allocated once and never moved, so
// addresses handed to the host stay stable.
//
// This is a deliberate policy, not a leak: guest instances are short-lived
// and the host reads returned buffers before discarding the instance.
type Arena struct {
	buf  []byte
	base uintptr
	off  int
}

func NewArena(size int) *Arena {
	a := &Arena{buf: make([]byte, size)}
	if size > 0 {
		a.base = uintptr(unsafe.Pointer(&a.buf[0]))
	}
	return a
}

// Alloc reserves size bytes and returns the address of the reservation.
// The contents are uninitialized. Alloc(0) succeeds and returns the current
// cursor address. There is no error path: exhausting the arena panics,
// which traps the guest instance.
func (a *Arena) Alloc(size int) uintptr {
	if size < 0 {
		panic(fmt.Sprintf("wasm: negative allocation size %d", size))
	}
	if size > len(a.buf)-a.off {
		panic(fmt.Sprintf("wasm: arena exhausted, %d bytes requested, %d remaining", size, a.Remaining()))
	}

	ptr := a.base + uintptr(a.off)

	// Keep subsequent allocations 8-byte aligned.
	padding := (arenaAlign - size%arenaAlign) % arenaAlign
	a.off += size + padding
	if a.off > len(a.buf) {
		a.off = len(a.buf)
	}

	return ptr
}

// AllocBytes reserves len(b) bytes, copies b into the reservation and
// returns its address.
func (a *Arena) AllocBytes(b []byte) uintptr {
	start := a.off
	ptr := a.Alloc(len(b))
	copy(a.buf[start:], b)
	return ptr
}

// Reset rewinds the arena to its start. Addresses handed out before the
// reset are reused by later allocations, so it must only be called once the
// host is done reading them.
func (a *Arena) Reset() {
	a.off = 0
}

// Remaining returns the number of bytes left in the arena.
func (a *Arena) Remaining() int {
	return len(a.buf) - a.off
}

//go:build wasm

package wasm

import (
	"github.com/guestkit/guestkit"
)

var handler guestkit.Handler = guestkit.HandlerFunc(func([]byte) []byte {
	return []byte("no handler set, call wasm.Init() in the plugin code to set a handler")
})

var arena = NewArena(DefaultArenaSize)

// Init needs to be called in an init function in the wasm plugin to register
// the handler invoked by the handle export.
func Init(h guestkit.Handler, opt ...InitOption) {
	opts := defaultInitOptions
	for _, o := range opt {
		o.applyInit(&opts)
	}

	if opts.arenaSize != len(arena.buf) {
		arena = NewArena(opts.arenaSize)
	}
	handler = h
}

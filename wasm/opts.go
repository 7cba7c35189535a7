package wasm

// InitOption configures the guest side of the calling convention.
type InitOption interface {
	applyInit(opt *initOptions)
}

// initOptionFunc wraps a function that modifies initOptions into an
// implementation of the InitOption interface.
type initOptionFunc func(*initOptions)

func (f initOptionFunc) applyInit(opt *initOptions) { f(opt) }

type initOptions struct {
	arenaSize int
}

var defaultInitOptions = initOptions{
	arenaSize: DefaultArenaSize,
}

// WithArenaSize returns an InitOption that sets the capacity of the one-way
// arena backing the alloc export. Sizes smaller than 1 are ignored.
func WithArenaSize(size int) InitOption {
	return initOptionFunc(func(opt *initOptions) {
		if size > 0 {
			opt.arenaSize = size
		}
	})
}

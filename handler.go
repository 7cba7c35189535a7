package guestkit

// Handler is the bridge between the Wasm exports and the guest plugin. It
// gets the raw input bytes the host wrote into guest memory and returns the
// response bytes the guest hands back.
type Handler interface {
	// Handle gets called for every host call to the guest.
	Handle(input []byte) (resp []byte)
}

// HandlerFunc is a function type that implements the Handler interface.
type HandlerFunc func(input []byte) (resp []byte)

func (f HandlerFunc) Handle(input []byte) (resp []byte) { return f(input) }

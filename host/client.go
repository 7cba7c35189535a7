// Package host drives guest modules that implement the alloc/handle
// calling convention: every exchange is an allocation in guest memory, a
// direct memory write, a call, and a read through the returned packed
// buffer reference.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/guestkit/guestkit"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Client wraps an instantiated guest module and exposes its two exports.
type Client struct {
	opts   clientOptions
	module api.Module

	// m serializes calls into the module, guest instances are
	// single-threaded.
	m        sync.Mutex
	allocFn  api.Function
	handleFn api.Function
}

// InstantiateModuleAndClient instantiates a guest module from its binary
// and wraps it in a Client. The module is initialized as a reactor, its
// exports are the only entry points.
func InstantiateModuleAndClient(
	ctx context.Context,
	runtime wazero.Runtime,
	source []byte,
	opt ...ClientOption,
) (api.Module, *Client, error) {
	config := wazero.NewModuleConfig().
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithStartFunctions("_initialize")

	module, err := runtime.InstantiateWithConfig(ctx, source, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to instantiate Wasm module: %w", err)
	}

	client, err := NewClient(module, opt...)
	if err != nil {
		_ = module.Close(ctx)
		return nil, nil, err
	}

	return module, client, nil
}

// NewClient wraps an already instantiated module. It fails if the module
// does not export alloc and handle with the expected signatures.
func NewClient(module api.Module, opt ...ClientOption) (*Client, error) {
	opts := defaultClientOptions
	for _, o := range opt {
		o.applyClient(&opts)
	}

	allocFn, err := getExportedFunction(module, allocFunctionDefinition)
	if err != nil {
		return nil, fmt.Errorf("failed to get alloc function: %w", err)
	}

	handleFn, err := getExportedFunction(module, handleFunctionDefinition)
	if err != nil {
		return nil, fmt.Errorf("failed to get handle function: %w", err)
	}

	return &Client{
		opts:     opts,
		module:   module,
		allocFn:  allocFn,
		handleFn: handleFn,
	}, nil
}

// Alloc reserves size bytes in guest memory and returns the buffer's
// address. The buffer's contents are uninitialized and the guest never
// reclaims it.
func (c *Client) Alloc(ctx context.Context, size uint32) (uint32, error) {
	if c.module.IsClosed() {
		return 0, errors.New("module is closed")
	}

	c.m.Lock()
	defer c.m.Unlock()

	return c.alloc(ctx, size)
}

func (c *Client) alloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := c.allocFn.Call(ctx, api.EncodeU32(size))
	if err != nil {
		c.opts.logger.ErrorContext(ctx, "failed to call Wasm function", "function", allocFunctionDefinition.name, "error", err)
		return 0, fmt.Errorf("failed to call Wasm function %q: %w", allocFunctionDefinition.name, err)
	}

	return api.DecodeU32(results[0]), nil
}

// Call runs one exchange with the guest: it allocates an input buffer,
// writes input into it, invokes handle and reads the response out of the
// packed reference it returns. Each call allocates fresh buffers, the
// guest's allocator is one-way.
func (c *Client) Call(ctx context.Context, input []byte) ([]byte, error) {
	if c.module.IsClosed() {
		return nil, errors.New("module is closed")
	}

	c.m.Lock()
	defer c.m.Unlock()

	logger := c.opts.logger

	// Step 1: Allocate the input buffer in the guest.
	ptr, err := c.alloc(ctx, uint32(len(input)))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate input buffer: %w", err)
	}

	// Step 2: Write the input into the guest's memory.
	if len(input) > 0 && !c.module.Memory().Write(ptr, input) {
		logger.ErrorContext(ctx, "failed to write to Wasm module memory", "ptr", ptr, "size", len(input))
		return nil, fmt.Errorf("failed to write to Wasm module memory at pointer %d with size %d", ptr, len(input))
	}

	// Step 3: Call handle with the buffer's address and size.
	results, err := c.handleFn.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(uint32(len(input))))
	if err != nil {
		logger.ErrorContext(ctx, "failed to call Wasm function", "function", handleFunctionDefinition.name, "error", err)
		return nil, fmt.Errorf("failed to call Wasm function %q: %w", handleFunctionDefinition.name, err)
	}

	// Step 4: Unpack the returned reference and read the response.
	ref := guestkit.Ref(results[0])

	resp, ok := c.module.Memory().Read(ref.Ptr(), ref.Size())
	if !ok {
		logger.ErrorContext(ctx, "failed to read from Wasm module memory", "ptr", ref.Ptr(), "size", ref.Size())
		return nil, fmt.Errorf("failed to read from Wasm module memory at pointer %d with size %d", ref.Ptr(), ref.Size())
	}

	// Memory.Read returns a view into guest memory, copy it out so later
	// guest calls cannot change the returned bytes.
	out := make([]byte, len(resp))
	copy(out, resp)

	return out, nil
}

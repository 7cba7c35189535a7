package host

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// exportedFunc describes one function export of a test guest.
type exportedFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
}

// instantiateModule assembles and instantiates a minimal guest binary with
// the given exports. The fixtures must be real modules: wazero forbids
// ExportedFunction on host modules, so a host module cannot stand in for a
// guest here.
func instantiateModule(t *testing.T, exports ...exportedFunc) api.Module {
	t.Helper()

	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })

	module, err := r.Instantiate(ctx, encodeModule(exports))
	if err != nil {
		t.Fatalf("failed to instantiate module: %v", err)
	}

	return module
}

// encodeModule builds the Wasm binary for a module exporting one function
// per entry, each with its own type and a body that returns zero values.
// Every section stays under 128 bytes, so all LEB128 lengths fit in one
// byte.
func encodeModule(exports []exportedFunc) []byte {
	// Type section: one function type per export. api.ValueType values are
	// the binary encoding of the value types.
	types := []byte{byte(len(exports))}
	for _, e := range exports {
		types = append(types, 0x60, byte(len(e.params)))
		types = append(types, e.params...)
		types = append(types, byte(len(e.results)))
		types = append(types, e.results...)
	}

	// Function section: type index per function.
	funcs := []byte{byte(len(exports))}
	for i := range exports {
		funcs = append(funcs, byte(i))
	}

	// Export section: function exports only.
	exps := []byte{byte(len(exports))}
	for i, e := range exports {
		exps = append(exps, byte(len(e.name)))
		exps = append(exps, e.name...)
		exps = append(exps, 0x00, byte(i))
	}

	// Code section: no locals, one zero constant per result.
	code := []byte{byte(len(exports))}
	for _, e := range exports {
		body := []byte{0x00}
		for _, res := range e.results {
			switch res {
			case api.ValueTypeI32:
				body = append(body, 0x41, 0x00) // i32.const 0
			case api.ValueTypeI64:
				body = append(body, 0x42, 0x00) // i64.const 0
			}
		}
		body = append(body, 0x0B) // end
		code = append(code, byte(len(body)))
		code = append(code, body...)
	}

	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00} // magic, version
	for _, section := range []struct {
		id      byte
		content []byte
	}{
		{0x01, types},
		{0x03, funcs},
		{0x07, exps},
		{0x0A, code},
	} {
		out = append(out, section.id, byte(len(section.content)))
		out = append(out, section.content...)
	}

	return out
}

func allocExport() exportedFunc {
	return exportedFunc{
		name:    "alloc",
		params:  []api.ValueType{api.ValueTypeI32},
		results: []api.ValueType{api.ValueTypeI32},
	}
}

func handleExport() exportedFunc {
	return exportedFunc{
		name:    "handle",
		params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		results: []api.ValueType{api.ValueTypeI64},
	}
}

func TestGetExportedFunction(t *testing.T) {
	t.Run("should accept a matching export", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, allocExport(), handleExport())

		fn, err := getExportedFunction(module, allocFunctionDefinition)
		is.NoErr(err)
		is.True(fn != nil)
	})

	t.Run("should fail for a missing export", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, handleExport())

		_, err := getExportedFunction(module, allocFunctionDefinition)
		is.True(err != nil)
		is.True(strings.Contains(err.Error(), `"alloc" does not exist`))
	})

	t.Run("should fail for a result type mismatch", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, exportedFunc{
			name:    "handle",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32}, // result should be i64
		})

		_, err := getExportedFunction(module, handleFunctionDefinition)
		is.True(err != nil)
		is.True(strings.Contains(err.Error(), "definition mismatch"))
	})

	t.Run("should fail for a parameter count mismatch", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, exportedFunc{
			name:    "alloc",
			params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI32},
		})

		_, err := getExportedFunction(module, allocFunctionDefinition)
		is.True(err != nil)
		is.True(strings.Contains(err.Error(), "definition mismatch"))
	})
}

func TestNewClient(t *testing.T) {
	t.Run("should wrap a conforming module", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, allocExport(), handleExport())

		client, err := NewClient(module)
		is.NoErr(err)
		is.True(client != nil)
	})

	t.Run("should reject a module without alloc", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, handleExport())

		_, err := NewClient(module)
		is.True(err != nil)
		is.True(strings.Contains(err.Error(), "failed to get alloc function"))
	})

	t.Run("should reject a module with a wrong handle signature", func(t *testing.T) {
		is := is.New(t)
		module := instantiateModule(t, allocExport(), exportedFunc{
			name:    "handle",
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{api.ValueTypeI64},
		})

		_, err := NewClient(module)
		is.True(err != nil)
		is.True(strings.Contains(err.Error(), "failed to get handle function"))
	})
}

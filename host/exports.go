package host

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

type functionDefinition struct {
	name        string
	paramTypes  []api.ValueType
	resultTypes []api.ValueType
}

var (
	allocFunctionDefinition = functionDefinition{
		name: "alloc",
		paramTypes: []api.ValueType{
			api.ValueTypeI32, // u32 (requested size in bytes)
		},
		resultTypes: []api.ValueType{api.ValueTypeI32}, // u32 (pointer to the reserved buffer)
	}
	handleFunctionDefinition = functionDefinition{
		name: "handle",
		paramTypes: []api.ValueType{
			api.ValueTypeI32, // u32 (pointer to the input buffer)
			api.ValueTypeI32, // u32 (size of the input buffer)
		},
		resultTypes: []api.ValueType{api.ValueTypeI64}, // u64 (packed reference to the response buffer)
	}
)

// getExportedFunction retrieves an exported function from the given module
// and checks that it matches the expected definition. It returns an error
// if the function does not exist or has a different signature.
func getExportedFunction(module api.Module, want functionDefinition) (fn api.Function, err error) {
	fn = module.ExportedFunction(want.name)

	var def api.FunctionDefinition

	func() {
		// Recover from the panic that occurs if the function does not exist.
		defer func() {
			if recover() != nil {
				fn = nil
				err = fmt.Errorf("exported function %q does not exist", want.name)
			}
		}()

		def = fn.Definition()
	}()
	if err != nil {
		return nil, err
	}

	if !matchesFunctionDefinition(want, def) {
		return nil, fmt.Errorf(
			"exported Wasm function definition mismatch, expected %s, got %s",
			formatFunctionDefinition(want.name, want.paramTypes, want.resultTypes),
			formatFunctionDefinition(want.name, def.ParamTypes(), def.ResultTypes()),
		)
	}

	return fn, nil
}

func matchesFunctionDefinition(want functionDefinition, got api.FunctionDefinition) bool {
	if len(got.ParamTypes()) != len(want.paramTypes) ||
		len(got.ResultTypes()) != len(want.resultTypes) {
		return false
	}

	for i, typ := range got.ParamTypes() {
		if want.paramTypes[i] != typ {
			return false
		}
	}

	for i, typ := range got.ResultTypes() {
		if want.resultTypes[i] != typ {
			return false
		}
	}

	return true
}

func formatFunctionDefinition(name string, params, results []api.ValueType) string {
	var out strings.Builder
	out.WriteString(name + "(")
	out.WriteString(formatValueTypes(params))
	out.WriteString(")")

	if len(results) > 0 {
		out.WriteString(" -> (")
		out.WriteString(formatValueTypes(results))
		out.WriteString(")")
	}

	return out.String()
}

func formatValueTypes(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, typ := range types {
		names[i] = api.ValueTypeName(typ)
	}
	return strings.Join(names, ", ")
}

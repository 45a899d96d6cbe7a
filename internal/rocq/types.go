// Package rocq implements the emit half of the WASM to Rocq
// translator: it consumes the structural view produced by
// internal/wasm and renders a Rocq source string against the external
// Wasm-in-Coq library's surface (module, module_func, T_num, T_i32,
// BI_*).
package rocq

import (
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/wasm"
)

// valueTypeSurface maps each WASM value type byte to its Wasm-in-Coq
// surface form.
var valueTypeSurface = map[wasm.ValueType]string{
	wasm.ValI32:       "T_num T_i32",
	wasm.ValI64:       "T_num T_i64",
	wasm.ValF32:       "T_num T_f32",
	wasm.ValF64:       "T_num T_f64",
	wasm.ValV128:      "T_vec T_v128",
	wasm.ValFuncRef:   "T_ref T_funcref",
	wasm.ValExternRef: "T_ref T_externref",
}

func translateValueType(vt wasm.ValueType) (string, bool) {
	s, ok := valueTypeSurface[vt]
	return s, ok
}

// translateValueTypeList renders a Rocq list of value types, used for
// a function signature's params/results.
func translateValueTypeList(vts []wasm.ValueType) (string, error) {
	if len(vts) == 0 {
		return "nil", nil
	}
	out := ""
	for _, vt := range vts {
		s, ok := translateValueType(vt)
		if !ok {
			return "", diag.Diagnostic{
				Code: diag.CodeUnsupportedSection, Severity: diag.Error,
				Message: "unrecognized value type byte",
			}
		}
		out += s + " :: "
	}
	return out + "nil", nil
}

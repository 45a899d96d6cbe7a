package rocq

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/wasm"
)

// preamble lists the fixed Rocq imports every emitted module
// requires: List, String, BinNat, ZArith, and the external
// Wasm-in-Coq library.
const preamble = `From Coq Require Import List.
From Coq Require Import String.
From Coq Require Import BinNat.
From Coq Require Import ZArith.
From Wasm Require Import datatypes operations.
Import ListNotations.
`

// helperDefs are the short constructors the module record's sections
// are built from, emitted once after the preamble so the per-section
// lists below stay readable.
const helperDefs = `Definition i32_v (z : Z) : value := VAL_int32 (Int32.repr z).
Definition i64_v (z : Z) : value := VAL_int64 (Int64.repr z).
Definition mem_entry (min : N) (max : option N) : memory_type := {| lim_min := min; lim_max := max |}.
Definition tab_entry (min : N) (max : option N) : module_table := {| t_min := min; t_max := max |}.
Definition glob_entry (t : global_type) (init : list basic_instruction) : module_glob := {| g_type := t; g_init := init |}.
Definition elem_entry (tab : N) (off : list basic_instruction) (init : list N) : module_element := {| elem_table := tab; elem_offset := off; elem_init := init |}.
Definition data_entry (mem : N) (off : list basic_instruction) (init : list N) : module_data := {| data_mem := mem; data_offset := off; data_init := init |}.
Definition imp_entry (m n : string) (d : import_desc) : module_import := {| imp_module := m; imp_name := n; imp_desc := d |}.
Definition exp_entry (n : string) (d : export_desc) : module_export := {| exp_name := n; exp_desc := d |}.
`

// emitter holds per-translation state: the parsed module and the
// diagnostic bag emission errors accumulate into. Emission-phase
// errors accumulate and the first is returned if any exist; parse
// failures never reach this type.
type emitter struct {
	mod  *wasm.Module
	bag  *diag.Bag
}

// Emit runs both phases of the WASM -> Rocq translator:
// parse, which fails fast on the first structural error, and emit,
// which accumulates diagnostics across every function and section and
// surfaces the first one if any were recorded.
func Emit(moduleName string, wasmBytes []byte) (string, error) {
	mod, err := wasm.Parse(wasmBytes)
	if err != nil {
		return "", err
	}
	e := &emitter{mod: mod, bag: diag.NewBag()}
	out := e.emitModule(moduleName)
	if e.bag.HasErrors() {
		return "", e.bag.All()[0]
	}
	return out, nil
}

func (e *emitter) fail(d diag.Diagnostic) {
	e.bag.Add(d)
}

// emitModule composes the full Rocq source: preamble, one definition
// per function, and a trailing module record, visiting sections in a
// fixed order (types, functions, tables, memories, globals, elements,
// data, start, imports, exports) so output is deterministic.
func (e *emitter) emitModule(name string) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n")
	b.WriteString(helperDefs)
	b.WriteString("\n")

	funcDefs := make([]string, 0, len(e.mod.Codes))
	for i, code := range e.mod.Codes {
		funcIdx := uint32(e.importedFuncCount() + i)
		def, ok := e.emitFunction(funcIdx, code)
		if !ok {
			continue
		}
		b.WriteString(def)
		b.WriteString("\n\n")
		funcDefs = append(funcDefs, sanitizeName(e.mod.FuncName(funcIdx)))
	}

	b.WriteString(e.emitModuleRecord(name, funcDefs))
	return b.String()
}

func (e *emitter) importedFuncCount() int {
	n := 0
	for _, im := range e.mod.Imports {
		if im.Kind == 0x00 {
			n++
		}
	}
	return n
}

// emitFunction renders one `Definition <name> : module_func := ...`,
// preserving the function's name from the name section, else the
// synthesized funN fallback.
func (e *emitter) emitFunction(funcIdx uint32, code wasm.Code) (string, bool) {
	typeIdx := e.mod.FuncTypeIndices[funcIdx-uint32(e.importedFuncCount())]
	if int(typeIdx) >= len(e.mod.Types) {
		e.fail(diag.Diagnostic{
			Code: diag.CodeMalformedWasm, Severity: diag.Error,
			Message: "function references an out-of-range type index",
		})
		return "", false
	}
	sig := e.mod.Types[typeIdx]

	params, err := translateValueTypeList(sig.Params)
	if err != nil {
		e.fail(err.(diag.Diagnostic))
		return "", false
	}
	results, err := translateValueTypeList(sig.Results)
	if err != nil {
		e.fail(err.(diag.Diagnostic))
		return "", false
	}
	locals, err := translateValueTypeList(code.Locals)
	if err != nil {
		e.fail(err.(diag.Diagnostic))
		return "", false
	}

	body, err := e.emitInstrs(code.Body)
	if err != nil {
		e.fail(err.(diag.Diagnostic))
		return "", false
	}

	name := sanitizeName(e.mod.FuncName(funcIdx))
	var b strings.Builder
	b.WriteString(localNameComment(e.mod.LocalNames[funcIdx]))
	b.WriteString("Definition " + name + " : module_func := {|\n")
	b.WriteString("  mf_type := Tf (" + params + ") (" + results + ");\n")
	b.WriteString("  mf_locals := " + locals + ";\n")
	b.WriteString("  mf_body := " + body + "\n")
	b.WriteString("|}.")
	return b.String(), true
}

// localNameComment renders the preserved local names of a function as
// a leading Rocq comment, since Wasm-in-Coq's binder positions for a
// module_func's locals are de Bruijn indices with no surface for
// names.
func localNameComment(names map[uint32]string) string {
	if len(names) == 0 {
		return ""
	}
	indices := make([]uint32, 0, len(names))
	for i := range names {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })

	var b strings.Builder
	b.WriteString("(* locals:")
	for _, i := range indices {
		b.WriteString(" " + strconv.FormatUint(uint64(i), 10) + "=" + names[i])
	}
	b.WriteString(" *)\n")
	return b.String()
}

// emitModuleRecord composes the trailing `Definition <name> : module
// := {| ... |}.` binding every section.
func (e *emitter) emitModuleRecord(name string, funcDefs []string) string {
	var b strings.Builder
	b.WriteString("Definition " + sanitizeName(name) + " : module := {|\n")
	b.WriteString("  mod_types := " + e.emitTypeList() + ";\n")
	b.WriteString("  mod_funcs := " + identList(funcDefs) + ";\n")
	b.WriteString("  mod_tables := " + e.emitTableList() + ";\n")
	b.WriteString("  mod_mems := " + e.emitMemoryList() + ";\n")
	b.WriteString("  mod_globals := " + e.emitGlobalList() + ";\n")
	b.WriteString("  mod_elem := " + e.emitElementList() + ";\n")
	b.WriteString("  mod_data := " + e.emitDataList() + ";\n")
	b.WriteString("  mod_start := " + e.emitStart() + ";\n")
	b.WriteString("  mod_imports := " + e.emitImportList() + ";\n")
	b.WriteString("  mod_exports := " + e.emitExportList() + "\n")
	b.WriteString("|}.\n")
	return b.String()
}

func identList(names []string) string {
	if len(names) == 0 {
		return "nil"
	}
	return strings.Join(names, " :: ") + " :: nil"
}

func (e *emitter) emitTypeList() string {
	var b strings.Builder
	for _, t := range e.mod.Types {
		params, err := translateValueTypeList(t.Params)
		if err != nil {
			e.fail(err.(diag.Diagnostic))
			continue
		}
		results, err := translateValueTypeList(t.Results)
		if err != nil {
			e.fail(err.(diag.Diagnostic))
			continue
		}
		b.WriteString("Tf (" + params + ") (" + results + ") :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func (e *emitter) emitTableList() string {
	var b strings.Builder
	for _, t := range e.mod.Tables {
		b.WriteString("tab_entry " + u32(t.Min) + " " + optU32(t.Max, t.HasMax) + " :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func (e *emitter) emitMemoryList() string {
	var b strings.Builder
	for _, m := range e.mod.Memories {
		b.WriteString("mem_entry " + u32(m.Min) + " " + optU32(m.Max, m.HasMax) + " :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func (e *emitter) emitGlobalList() string {
	var b strings.Builder
	for _, g := range e.mod.Globals {
		vt, ok := translateValueType(g.Type.Type)
		if !ok {
			e.fail(diag.Diagnostic{Code: diag.CodeUnsupportedSection, Severity: diag.Error, Message: "unrecognized global value type"})
			continue
		}
		init, err := e.emitInstrs(g.Init)
		if err != nil {
			e.fail(err.(diag.Diagnostic))
			continue
		}
		mut := "MUT_const"
		if g.Type.Mutable {
			mut = "MUT_var"
		}
		b.WriteString("glob_entry {| tg_t := " + vt + "; tg_mut := " + mut + " |} (" + init + ") :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func (e *emitter) emitElementList() string {
	var b strings.Builder
	for _, el := range e.mod.Elements {
		off, err := e.emitInstrs(el.Offset)
		if err != nil {
			e.fail(err.(diag.Diagnostic))
			continue
		}
		b.WriteString("elem_entry " + u32(el.TableIndex) + " (" + off + ") (" + u32List(el.FuncIndices) + ") :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func (e *emitter) emitDataList() string {
	var b strings.Builder
	for _, d := range e.mod.DataSegments {
		off, err := e.emitInstrs(d.Offset)
		if err != nil {
			e.fail(err.(diag.Diagnostic))
			continue
		}
		b.WriteString("data_entry " + u32(d.MemoryIndex) + " (" + off + ") (" + byteList(d.Bytes) + ") :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func byteList(bs []byte) string {
	var b strings.Builder
	for _, v := range bs {
		b.WriteString(strconv.FormatUint(uint64(v), 10) + " :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func (e *emitter) emitStart() string {
	if !e.mod.HasStart {
		return "None"
	}
	return "Some " + u32(e.mod.StartFunc)
}

func (e *emitter) emitImportList() string {
	var b strings.Builder
	for _, im := range e.mod.Imports {
		b.WriteString(`imp_entry "` + im.Module + `" "` + im.Name + `" (` + importDesc(im) + ") :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func importDesc(im wasm.Import) string {
	switch im.Kind {
	case 0x00:
		return "ID_func " + u32(im.Index)
	case 0x01:
		return "ID_table " + u32(im.Index)
	case 0x02:
		return "ID_mem " + u32(im.Index)
	default:
		return "ID_global " + u32(im.Index)
	}
}

func (e *emitter) emitExportList() string {
	var b strings.Builder
	for _, ex := range e.mod.Exports {
		b.WriteString(`exp_entry "` + ex.Name + `" (` + exportDesc(ex) + ") :: ")
	}
	b.WriteString("nil")
	return b.String()
}

func exportDesc(ex wasm.Export) string {
	switch ex.Kind {
	case 0x00:
		return "ED_func " + u32(ex.Index)
	case 0x01:
		return "ED_table " + u32(ex.Index)
	case 0x02:
		return "ED_mem " + u32(ex.Index)
	default:
		return "ED_global " + u32(ex.Index)
	}
}

func optU32(v uint32, has bool) string {
	if !has {
		return "None"
	}
	return "(Some " + u32(v) + ")"
}

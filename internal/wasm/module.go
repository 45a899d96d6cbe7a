package wasm

import "strconv"

// ValueType is a WASM value type byte.
type ValueType byte

const (
	ValI32       ValueType = 0x7F
	ValI64       ValueType = 0x7E
	ValF32       ValueType = 0x7D
	ValF64       ValueType = 0x7C
	ValV128      ValueType = 0x7B
	ValFuncRef   ValueType = 0x70
	ValExternRef ValueType = 0x6F
)

// FuncType is one entry of the type section: a function signature.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// Import is one entry of the import section.
type Import struct {
	Module string
	Name   string
	Kind   byte // 0x00 func, 0x01 table, 0x02 mem, 0x03 global
	Index  uint32
}

// Export is one entry of the export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// Table is one entry of the table section.
type Table struct {
	ElemType ValueType
	Min      uint32
	Max      uint32
	HasMax   bool
}

// Memory is one entry of the memory section.
type Memory struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	Type    ValueType
	Mutable bool
}

// Global is one entry of the global section.
type Global struct {
	Type GlobalType
	Init []Instruction
}

// Element is one entry of the element section (active function-table
// initializers; the only form Veyra's code generator produces).
type Element struct {
	TableIndex uint32
	Offset     []Instruction
	FuncIndices []uint32
}

// Data is one entry of the data section.
type Data struct {
	MemoryIndex uint32
	Offset      []Instruction
	Bytes       []byte
}

// Code is one entry of the code section: a function's locals
// (beyond its declared parameters) and its instruction body.
type Code struct {
	Locals []ValueType
	Body   []Instruction
}

// Module is the structural view produced by Parse: every WASM MVP
// section plus the optional name custom section, with no validation
// beyond what the single streaming parse itself requires.
type Module struct {
	Types   []FuncType
	Imports []Import
	// FuncTypeIndices[i] is the type-section index of the i-th
	// function defined in this module (imported functions are not
	// included; they're addressed via Imports).
	FuncTypeIndices []uint32
	Tables          []Table
	Memories        []Memory
	Globals         []Global
	Exports         []Export
	StartFunc       uint32
	HasStart        bool
	Elements        []Element
	Codes           []Code
	DataSegments    []Data

	// FuncNames maps a function index (imports first, then locally
	// defined functions, matching WASM's shared function index
	// space) to its name, if the name custom section carried one
	//.
	FuncNames map[uint32]string
	// LocalNames[funcIndex][localIndex] is a local variable's
	// preserved name.
	LocalNames map[uint32]map[uint32]string
}

// FuncCount returns the total number of functions in the shared
// function index space: imported functions followed by locally
// defined ones.
func (m *Module) FuncCount() int {
	imported := 0
	for _, im := range m.Imports {
		if im.Kind == 0x00 {
			imported++
		}
	}
	return imported + len(m.Codes)
}

// FuncName returns the preserved name for function index i, or the
// synthesized fallback `fun<i>`.
func (m *Module) FuncName(i uint32) string {
	if name, ok := m.FuncNames[i]; ok {
		return name
	}
	return "fun" + strconv.Itoa(int(i))
}

package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addModuleBytes is a minimal WASM MVP binary: one exported function
// `add(i32,i32)->i32` whose body is
// `local.get 0; local.get 1; i32.add`.
func addModuleBytes() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version

		// type section: (i32,i32)->i32
		0x01, 0x07, 0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,

		// function section: func 0 uses type 0
		0x03, 0x02, 0x01, 0x00,

		// export section: "add" -> func 0
		0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00,

		// code section: one function, no locals,
		// local.get 0; local.get 1; i32.add; end
		0x0A, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,
	}
}

func TestParse_TrivialAddModule(t *testing.T) {
	m, err := Parse(addModuleBytes())
	require.NoError(t, err)

	require.Len(t, m.Types, 1)
	assert.Equal(t, []ValueType{ValI32, ValI32}, m.Types[0].Params)
	assert.Equal(t, []ValueType{ValI32}, m.Types[0].Results)

	require.Len(t, m.FuncTypeIndices, 1)
	assert.Equal(t, uint32(0), m.FuncTypeIndices[0])

	require.Len(t, m.Exports, 1)
	assert.Equal(t, "add", m.Exports[0].Name)
	assert.Equal(t, byte(0x00), m.Exports[0].Kind)
	assert.Equal(t, uint32(0), m.Exports[0].Index)

	require.Len(t, m.Codes, 1)
	body := m.Codes[0].Body
	require.Len(t, body, 3)
	assert.Equal(t, byte(0x20), body[0].Op)
	assert.Equal(t, uint32(0), body[0].LocalIndex)
	assert.Equal(t, byte(0x20), body[1].Op)
	assert.Equal(t, uint32(1), body[1].LocalIndex)
	assert.Equal(t, byte(0x6A), body[2].Op)
}

func TestParse_RejectsBadMagic(t *testing.T) {
	bad := append([]byte{}, addModuleBytes()...)
	bad[0] = 0xFF
	_, err := Parse(bad)
	assert.Error(t, err)
}

func TestParse_NameSectionPreservesFuncName(t *testing.T) {
	base := addModuleBytes()
	// custom "name" section with one function-name subsection
	// mapping func 0 -> "add_fn": namemap = count(1), idx(0), name("add_fn").
	nameSubsection := []byte{0x01, 0x00, 0x06, 'a', 'd', 'd', '_', 'f', 'n'}
	sub := append([]byte{0x01, byte(len(nameSubsection))}, nameSubsection...)
	nameBody := append([]byte{0x04, 'n', 'a', 'm', 'e'}, sub...)
	custom := append([]byte{0x00, byte(len(nameBody))}, nameBody...)

	full := append(append([]byte{}, base...), custom...)
	m, err := Parse(full)
	require.NoError(t, err)
	assert.Equal(t, "add_fn", m.FuncName(0))
}

func TestModule_FuncNameFallback(t *testing.T) {
	m := &Module{FuncNames: map[uint32]string{}}
	assert.Equal(t, "fun0", m.FuncName(0))
	assert.Equal(t, "fun12", m.FuncName(12))
}

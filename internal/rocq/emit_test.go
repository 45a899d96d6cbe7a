package rocq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addModuleBytes() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x07, 0x01, 0x60, 0x02, 0x7F, 0x7F, 0x01, 0x7F,
		0x03, 0x02, 0x01, 0x00,
		0x07, 0x07, 0x01, 0x03, 'a', 'd', 'd', 0x00, 0x00,
		0x0A, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B,

		// custom "name" section: function-name subsection, func 0 -> "add"
		0x00, 0x0D, 0x04, 'n', 'a', 'm', 'e',
		0x01, 0x06, 0x01, 0x00, 0x03, 'a', 'd', 'd',
	}
}

// TestEmit_TrivialAddModule: the emitted Rocq source carries the
// preamble, a module_func definition whose body ends in the i32.add
// binop form, and a module record exporting "add".
func TestEmit_TrivialAddModule(t *testing.T) {
	out, err := Emit("M", addModuleBytes())
	require.NoError(t, err)

	assert.Contains(t, out, "From Coq Require Import List.")
	assert.Contains(t, out, "Definition i32_v (z : Z) : value := VAL_int32 (Int32.repr z).")
	assert.Contains(t, out, "Definition add : module_func := {|")
	assert.Contains(t, out, "BI_binop T_i32 (Binop_i BOI_add) :: nil")
	assert.Contains(t, out, "Definition M : module := {|")
	assert.Contains(t, out, `exp_entry "add" (ED_func 0)`)
}

// forallModuleBytes wraps a single i32.const instruction in a matched
// forall-start/forall-end pair (extended opcodes FC 3A / FC 3B).
func forallModuleBytes() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,

		// type: () -> i32
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F,
		0x03, 0x02, 0x01, 0x00,
		0x07, 0x07, 0x01, 0x03, 'f', 'o', 'o', 0x00, 0x00,

		// code: locals=0; FC 3A; i32.const 7; FC 3B; end
		0x0A, 0x0A, 0x01, 0x08, 0x00,
		0xFC, 0x3A,
		0x41, 0x07,
		0xFC, 0x3B,
		0x0B,
	}
}

func TestEmit_ExtendedOpcodeForallBlock(t *testing.T) {
	out, err := Emit("N", forallModuleBytes())
	require.NoError(t, err)
	assert.Contains(t, out, "BI_forall (")
	assert.Contains(t, out, "BI_const (i32_v 7)")
}

// uzumakiModuleBytes carries a lone FC 3A followed by an i32.const:
// with no matching forall-end before the body ends, the opcode
// resolves to a standalone uzumaki-i32 marker sitting where it
// appeared, ahead of the instructions that followed it.
func uzumakiModuleBytes() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,

		// type: () -> i32
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F,
		0x03, 0x02, 0x01, 0x00,

		// code: locals=0; FC 3A; i32.const 9; end
		0x0A, 0x08, 0x01, 0x06, 0x00,
		0xFC, 0x3A,
		0x41, 0x09,
		0x0B,
	}
}

func TestEmit_UnmatchedExtendedOpcodeIsStandaloneUzumaki(t *testing.T) {
	out, err := Emit("U", uzumakiModuleBytes())
	require.NoError(t, err)
	assert.Contains(t, out, "BI_uzumaki_i32 :: BI_const (i32_v 9) :: nil")
}

func TestSanitizeName_AppendsUnderscoreOnCollision(t *testing.T) {
	assert.Equal(t, "end_", sanitizeName("end"))
	assert.Equal(t, "add", sanitizeName("add"))
}

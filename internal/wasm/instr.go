package wasm

import "fmt"

// Extended opcode sub-bytes in the 0xFC prefix space that carry
// Veyra's nondeterministic constructs. The "A / B" names note that
// these double as different meanings depending on surrounding
// context: the translator (internal/rocq) resolves which applies,
// the parser only records which sub-opcode it saw.
const (
	OpForallStartOrUzumakiI32 uint32 = 0x3A
	OpForallEndOrExistsStart  uint32 = 0x3B
	OpExistsEndOrUzumakiI64   uint32 = 0x3C
	OpAssumeStart             uint32 = 0x3D
	OpAssumeEndOrUniqueStart  uint32 = 0x3E
	OpUniqueEnd               uint32 = 0x3F
)

// Instruction is one decoded instruction. Which fields are meaningful
// depends on Op (and, for the 0xFC prefix, Op2). This is a structural
// decode only: the parser does not assign semantic meaning to opcodes
// beyond knowing how many immediate bytes each shape consumes: that is
// the Rocq emitter's job.
type Instruction struct {
	Op  byte
	Op2 uint32 // populated when Op == 0xFC

	// block / loop / if: BlockType is the block-type byte after the
	// opcode decoded as signed LEB128: -0x40 for the empty type (byte
	// 0x40), otherwise a ValueType byte read as signed (0x7F -> -1).
	BlockType int8
	Then      []Instruction // block/loop body, or if's then-branch
	Else      []Instruction // if's else-branch, nil if absent

	LabelIndex  uint32   // br, br_if
	LabelTable  []uint32 // br_table: all labels, LabelIndex holds the default
	FuncIndex   uint32   // call
	TypeIndex   uint32   // call_indirect
	LocalIndex  uint32
	GlobalIndex uint32
	MemAlign    uint32
	MemOffset   uint32

	I32     int32
	I64     int64
	F32Bits uint32
	F64Bits uint64
}

// memoryOpcodes is the set of load/store opcodes that carry an
// (align, offset) immediate pair and nothing else.
var memoryOpcodes = map[byte]bool{}

func init() {
	for op := byte(0x28); op <= 0x3E; op++ {
		memoryOpcodes[op] = true
	}
}

// decodeBlock decodes instructions starting at offset until it
// consumes a matching `end` (0x0B) at this nesting depth, returning
// the decoded instructions and the offset just past that `end`. Used
// both for a function body and recursively for block/loop/if bodies.
func decodeBlock(b []byte, offset int) ([]Instruction, int, error) {
	var out []Instruction
	for {
		if offset >= len(b) {
			return nil, 0, fmt.Errorf("wasm: unexpected end of instruction stream at offset %d", offset)
		}
		op := b[offset]
		offset++

		if op == 0x0B { // end
			return out, offset, nil
		}
		if op == 0x05 { // else: only valid inside decodeIf, caller handles it
			return out, offset - 1, nil
		}

		instr, next, err := decodeOne(b, offset, op)
		if err != nil {
			return nil, 0, err
		}
		offset = next
		out = append(out, instr)
	}
}

func decodeOne(b []byte, offset int, op byte) (Instruction, int, error) {
	switch op {
	case 0x02, 0x03: // block, loop
		bt, n, err := decodeSLEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		offset += n
		body, next, err := decodeBlock(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, BlockType: int8(bt), Then: body}, next, nil

	case 0x04: // if
		bt, n, err := decodeSLEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		offset += n
		thenBody, next, err := decodeBlock(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		offset = next
		var elseBody []Instruction
		if offset < len(b) && b[offset] == 0x05 {
			offset++
			elseBody, offset, err = decodeBlock(b, offset)
			if err != nil {
				return Instruction{}, 0, err
			}
		}
		return Instruction{Op: op, BlockType: int8(bt), Then: thenBody, Else: elseBody}, offset, nil

	case 0x0C, 0x0D: // br, br_if
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, LabelIndex: idx}, offset + n, nil

	case 0x0E: // br_table
		count, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		offset += n
		labels := make([]uint32, 0, count)
		for i := uint32(0); i < count; i++ {
			l, ln, err := decodeULEB32(b, offset)
			if err != nil {
				return Instruction{}, 0, err
			}
			offset += ln
			labels = append(labels, l)
		}
		def, dn, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		offset += dn
		return Instruction{Op: op, LabelTable: labels, LabelIndex: def}, offset, nil

	case 0x00, 0x01, 0x0F, 0x1A, 0x1B: // unreachable, nop, return, drop, select
		return Instruction{Op: op}, offset, nil

	case 0x10: // call
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, FuncIndex: idx}, offset + n, nil

	case 0x11: // call_indirect
		typeIdx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		offset += n
		_, n2, err := decodeULEB32(b, offset) // table index, reserved 0x00
		if err != nil {
			return Instruction{}, 0, err
		}
		offset += n2
		return Instruction{Op: op, TypeIndex: typeIdx}, offset, nil

	case 0x20, 0x21, 0x22: // local.get/set/tee
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, LocalIndex: idx}, offset + n, nil

	case 0x23, 0x24: // global.get/set
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, GlobalIndex: idx}, offset + n, nil

	case 0x3F, 0x40: // memory.size, memory.grow
		_, n, err := decodeULEB32(b, offset) // reserved byte, encoded as varuint
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op}, offset + n, nil

	case 0x41: // i32.const
		v, n, err := decodeSLEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, I32: v}, offset + n, nil

	case 0x42: // i64.const
		v, n, err := decodeSLEB64(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, I64: v}, offset + n, nil

	case 0x43: // f32.const
		if offset+4 > len(b) {
			return Instruction{}, 0, fmt.Errorf("wasm: truncated f32.const at offset %d", offset)
		}
		bits := uint32(b[offset]) | uint32(b[offset+1])<<8 | uint32(b[offset+2])<<16 | uint32(b[offset+3])<<24
		return Instruction{Op: op, F32Bits: bits}, offset + 4, nil

	case 0x44: // f64.const
		if offset+8 > len(b) {
			return Instruction{}, 0, fmt.Errorf("wasm: truncated f64.const at offset %d", offset)
		}
		var bits uint64
		for i := 0; i < 8; i++ {
			bits |= uint64(b[offset+i]) << (8 * i)
		}
		return Instruction{Op: op, F64Bits: bits}, offset + 8, nil

	case 0xFC: // extended opcode prefix
		sub, n, err := decodeULEB32(b, offset)
		if err != nil {
			return Instruction{}, 0, err
		}
		return Instruction{Op: op, Op2: sub}, offset + n, nil

	default:
		if memoryOpcodes[op] {
			align, n, err := decodeULEB32(b, offset)
			if err != nil {
				return Instruction{}, 0, err
			}
			offset += n
			memOffset, n2, err := decodeULEB32(b, offset)
			if err != nil {
				return Instruction{}, 0, err
			}
			offset += n2
			return Instruction{Op: op, MemAlign: align, MemOffset: memOffset}, offset, nil
		}
		if op >= 0x45 && op <= 0xC4 {
			// No-immediate numeric/comparison/conversion opcode;
			// mnemonic mapping lives in internal/rocq.
			return Instruction{Op: op}, offset, nil
		}
		return Instruction{}, 0, fmt.Errorf("wasm: unrecognized opcode 0x%02X at offset %d", op, offset-1)
	}
}

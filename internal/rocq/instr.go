package rocq

import (
	"strconv"
	"strings"

	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/wasm"
)

// numericMnemonic names the Wasm-in-Coq constructor for each
// no-immediate numeric/comparison/conversion opcode, in the library's
// `BI_binop (Binop_i BOI_add)` surface form. Coverage favors the
// opcodes Veyra's own code generator emits: i32/i64 arithmetic,
// comparisons, and the handful of conversions a small typed language
// needs. Anything absent from this table surfaces as CodeUnknownOpcode
// rather than guessing.
var numericMnemonic = map[byte]string{
	0x45: "BI_testop T_i32 TO_eqz",
	0x46: "BI_relop T_i32 (Relop_i ROI_eq)",
	0x47: "BI_relop T_i32 (Relop_i ROI_ne)",
	0x48: "BI_relop T_i32 (Relop_i (ROI_lt SX_S))",
	0x49: "BI_relop T_i32 (Relop_i (ROI_lt SX_U))",
	0x4A: "BI_relop T_i32 (Relop_i (ROI_gt SX_S))",
	0x4B: "BI_relop T_i32 (Relop_i (ROI_gt SX_U))",
	0x4C: "BI_relop T_i32 (Relop_i (ROI_le SX_S))",
	0x4D: "BI_relop T_i32 (Relop_i (ROI_le SX_U))",
	0x4E: "BI_relop T_i32 (Relop_i (ROI_ge SX_S))",
	0x4F: "BI_relop T_i32 (Relop_i (ROI_ge SX_U))",

	0x50: "BI_testop T_i64 TO_eqz",
	0x51: "BI_relop T_i64 (Relop_i ROI_eq)",
	0x52: "BI_relop T_i64 (Relop_i ROI_ne)",
	0x53: "BI_relop T_i64 (Relop_i (ROI_lt SX_S))",
	0x54: "BI_relop T_i64 (Relop_i (ROI_lt SX_U))",
	0x55: "BI_relop T_i64 (Relop_i (ROI_gt SX_S))",
	0x56: "BI_relop T_i64 (Relop_i (ROI_gt SX_U))",
	0x57: "BI_relop T_i64 (Relop_i (ROI_le SX_S))",
	0x58: "BI_relop T_i64 (Relop_i (ROI_le SX_U))",
	0x59: "BI_relop T_i64 (Relop_i (ROI_ge SX_S))",
	0x5A: "BI_relop T_i64 (Relop_i (ROI_ge SX_U))",

	0x5B: "BI_relop T_f32 (Relop_f ROF_eq)",
	0x5C: "BI_relop T_f32 (Relop_f ROF_ne)",
	0x5D: "BI_relop T_f32 (Relop_f ROF_lt)",
	0x5E: "BI_relop T_f32 (Relop_f ROF_gt)",
	0x5F: "BI_relop T_f32 (Relop_f ROF_le)",
	0x60: "BI_relop T_f32 (Relop_f ROF_ge)",

	0x61: "BI_relop T_f64 (Relop_f ROF_eq)",
	0x62: "BI_relop T_f64 (Relop_f ROF_ne)",
	0x63: "BI_relop T_f64 (Relop_f ROF_lt)",
	0x64: "BI_relop T_f64 (Relop_f ROF_gt)",
	0x65: "BI_relop T_f64 (Relop_f ROF_le)",
	0x66: "BI_relop T_f64 (Relop_f ROF_ge)",

	0x67: "BI_unop T_i32 (Unop_i UOI_clz)",
	0x68: "BI_unop T_i32 (Unop_i UOI_ctz)",
	0x69: "BI_unop T_i32 (Unop_i UOI_popcnt)",
	0x6A: "BI_binop T_i32 (Binop_i BOI_add)",
	0x6B: "BI_binop T_i32 (Binop_i BOI_sub)",
	0x6C: "BI_binop T_i32 (Binop_i BOI_mul)",
	0x6D: "BI_binop T_i32 (Binop_i (BOI_div SX_S))",
	0x6E: "BI_binop T_i32 (Binop_i (BOI_div SX_U))",
	0x6F: "BI_binop T_i32 (Binop_i (BOI_rem SX_S))",
	0x70: "BI_binop T_i32 (Binop_i (BOI_rem SX_U))",
	0x71: "BI_binop T_i32 (Binop_i BOI_and)",
	0x72: "BI_binop T_i32 (Binop_i BOI_or)",
	0x73: "BI_binop T_i32 (Binop_i BOI_xor)",
	0x74: "BI_binop T_i32 (Binop_i BOI_shl)",
	0x75: "BI_binop T_i32 (Binop_i (BOI_shr SX_S))",
	0x76: "BI_binop T_i32 (Binop_i (BOI_shr SX_U))",
	0x77: "BI_binop T_i32 (Binop_i BOI_rotl)",
	0x78: "BI_binop T_i32 (Binop_i BOI_rotr)",

	0x79: "BI_unop T_i64 (Unop_i UOI_clz)",
	0x7A: "BI_unop T_i64 (Unop_i UOI_ctz)",
	0x7B: "BI_unop T_i64 (Unop_i UOI_popcnt)",
	0x7C: "BI_binop T_i64 (Binop_i BOI_add)",
	0x7D: "BI_binop T_i64 (Binop_i BOI_sub)",
	0x7E: "BI_binop T_i64 (Binop_i BOI_mul)",
	0x7F: "BI_binop T_i64 (Binop_i (BOI_div SX_S))",
	0x80: "BI_binop T_i64 (Binop_i (BOI_div SX_U))",
	0x81: "BI_binop T_i64 (Binop_i (BOI_rem SX_S))",
	0x82: "BI_binop T_i64 (Binop_i (BOI_rem SX_U))",
	0x83: "BI_binop T_i64 (Binop_i BOI_and)",
	0x84: "BI_binop T_i64 (Binop_i BOI_or)",
	0x85: "BI_binop T_i64 (Binop_i BOI_xor)",
	0x86: "BI_binop T_i64 (Binop_i BOI_shl)",
	0x87: "BI_binop T_i64 (Binop_i (BOI_shr SX_S))",
	0x88: "BI_binop T_i64 (Binop_i (BOI_shr SX_U))",
	0x89: "BI_binop T_i64 (Binop_i BOI_rotl)",
	0x8A: "BI_binop T_i64 (Binop_i BOI_rotr)",

	0xA7: "BI_cvtop T_i32 CVO_wrap T_i64 None",
	0xA8: "BI_cvtop T_i32 CVO_trunc T_f32 (Some SX_S)",
	0xA9: "BI_cvtop T_i32 CVO_trunc T_f32 (Some SX_U)",
	0xAA: "BI_cvtop T_i32 CVO_trunc T_f64 (Some SX_S)",
	0xAB: "BI_cvtop T_i32 CVO_trunc T_f64 (Some SX_U)",
	0xAC: "BI_cvtop T_i64 CVO_extend T_i32 (Some SX_S)",
	0xAD: "BI_cvtop T_i64 CVO_extend T_i32 (Some SX_U)",
	0xB2: "BI_cvtop T_f32 CVO_convert T_i32 (Some SX_S)",
	0xB3: "BI_cvtop T_f32 CVO_convert T_i32 (Some SX_U)",
	0xB7: "BI_cvtop T_f64 CVO_convert T_i32 (Some SX_S)",
	0xB8: "BI_cvtop T_f64 CVO_convert T_i32 (Some SX_U)",
	0xBC: "BI_cvtop T_i32 CVO_reinterpret T_f32 None",
	0xBD: "BI_cvtop T_i64 CVO_reinterpret T_f64 None",
	0xBE: "BI_cvtop T_f32 CVO_reinterpret T_i32 None",
	0xBF: "BI_cvtop T_f64 CVO_reinterpret T_i64 None",
}

var memoryMnemonic = map[byte]string{
	0x28: "BI_load T_i32 None", 0x29: "BI_load T_i64 None",
	0x2A: "BI_load T_f32 None", 0x2B: "BI_load T_f64 None",
	0x2C: "BI_load T_i32 (Some (Tp_i8, SX_S))", 0x2D: "BI_load T_i32 (Some (Tp_i8, SX_U))",
	0x2E: "BI_load T_i32 (Some (Tp_i16, SX_S))", 0x2F: "BI_load T_i32 (Some (Tp_i16, SX_U))",
	0x30: "BI_load T_i64 (Some (Tp_i8, SX_S))", 0x31: "BI_load T_i64 (Some (Tp_i8, SX_U))",
	0x32: "BI_load T_i64 (Some (Tp_i16, SX_S))", 0x33: "BI_load T_i64 (Some (Tp_i16, SX_U))",
	0x34: "BI_load T_i64 (Some (Tp_i32, SX_S))", 0x35: "BI_load T_i64 (Some (Tp_i32, SX_U))",
	0x36: "BI_store T_i32 None", 0x37: "BI_store T_i64 None",
	0x38: "BI_store T_f32 None", 0x39: "BI_store T_f64 None",
	0x3A: "BI_store T_i32 (Some Tp_i8)", 0x3B: "BI_store T_i32 (Some Tp_i16)",
	0x3C: "BI_store T_i64 (Some Tp_i8)", 0x3D: "BI_store T_i64 (Some Tp_i16)",
	0x3E: "BI_store T_i64 (Some Tp_i32)",
}

// emitInstrs groups a flat instruction list's nondet blocks (via
// groupNondet) and renders it as a Rocq `::`/`nil` list. It recurses into block,
// loop, and if bodies, grouping their nested instruction streams for
// nondet blocks independently, so block/loop/if bodies come out as
// nested structured forms.
func (e *emitter) emitInstrs(instrs []wasm.Instruction) (string, error) {
	grouped, err := groupNondet(instrs)
	if err != nil {
		return "", err
	}
	return e.emitRNodes(grouped)
}

func (e *emitter) emitRNodes(nodes []rnode) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		s, err := e.emitRNode(n)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteString(" :: ")
	}
	b.WriteString("nil")
	return b.String(), nil
}

func (e *emitter) emitRNode(n rnode) (string, error) {
	if n.isBlock {
		body, err := e.emitRNodes(n.body)
		if err != nil {
			return "", err
		}
		switch n.kind {
		case nondetForall:
			return "BI_forall (" + body + ")", nil
		case nondetExists:
			return "BI_exists (" + body + ")", nil
		case nondetAssume:
			return "BI_assume (" + body + ")", nil
		case nondetUnique:
			return "BI_unique (" + body + ")", nil
		}
	}
	if n.uzu != nil {
		if *n.uzu == 0 {
			return "BI_uzumaki_i32", nil
		}
		return "BI_uzumaki_i64", nil
	}
	return e.emitInstr(*n.plain)
}

func (e *emitter) emitInstr(in wasm.Instruction) (string, error) {
	switch in.Op {
	case 0x00:
		return "BI_unreachable", nil
	case 0x01:
		return "BI_nop", nil
	case 0x0F:
		return "BI_return", nil
	case 0x1A:
		return "BI_drop", nil
	case 0x1B:
		return "BI_select", nil

	case 0x02: // block
		body, err := e.emitInstrs(in.Then)
		if err != nil {
			return "", err
		}
		return "BI_block (" + blockTypeSurface(in.BlockType) + ") (" + body + ")", nil

	case 0x03: // loop
		body, err := e.emitInstrs(in.Then)
		if err != nil {
			return "", err
		}
		return "BI_loop (" + blockTypeSurface(in.BlockType) + ") (" + body + ")", nil

	case 0x04: // if/else
		then, err := e.emitInstrs(in.Then)
		if err != nil {
			return "", err
		}
		els, err := e.emitInstrs(in.Else)
		if err != nil {
			return "", err
		}
		return "BI_if (" + blockTypeSurface(in.BlockType) + ") (" + then + ") (" + els + ")", nil

	case 0x0C:
		return "BI_br " + u32(in.LabelIndex), nil
	case 0x0D:
		return "BI_br_if " + u32(in.LabelIndex), nil
	case 0x0E:
		return "BI_br_table (" + u32List(in.LabelTable) + ") " + u32(in.LabelIndex), nil

	case 0x10:
		return "BI_call " + u32(in.FuncIndex), nil
	case 0x11:
		return "BI_call_indirect " + u32(in.TypeIndex), nil

	case 0x20:
		return "BI_get_local " + u32(in.LocalIndex), nil
	case 0x21:
		return "BI_set_local " + u32(in.LocalIndex), nil
	case 0x22:
		return "BI_tee_local " + u32(in.LocalIndex), nil
	case 0x23:
		return "BI_get_global " + u32(in.GlobalIndex), nil
	case 0x24:
		return "BI_set_global " + u32(in.GlobalIndex), nil

	case 0x3F:
		return "BI_current_memory", nil
	case 0x40:
		return "BI_grow_memory", nil

	case 0x41:
		return "BI_const (i32_v " + strconv.FormatInt(int64(in.I32), 10) + ")", nil
	case 0x42:
		return "BI_const (i64_v " + strconv.FormatInt(in.I64, 10) + ")", nil
	case 0x43:
		return "BI_const (VAL_float32 (Float32.of_bits " + strconv.FormatUint(uint64(in.F32Bits), 10) + "))", nil
	case 0x44:
		return "BI_const (VAL_float64 (Float64.of_bits " + strconv.FormatUint(in.F64Bits, 10) + "))", nil

	default:
		if mn, ok := memoryMnemonic[in.Op]; ok {
			return mn + " " + u32(in.MemAlign) + " " + u32(in.MemOffset), nil
		}
		if mn, ok := numericMnemonic[in.Op]; ok {
			return mn, nil
		}
		return "", diag.Diagnostic{
			Code: diag.CodeUnknownOpcode, Severity: diag.Error,
			Message: "no Rocq translation known for opcode 0x" + strconv.FormatUint(uint64(in.Op), 16),
		}
	}
}

func blockTypeSurface(bt int8) string {
	if bt == -0x40 { // 0x40 read as signed LEB128: empty block type
		return "nil"
	}
	// A value-type byte read as signed LEB128 is negative (0x7F -> -1);
	// its low seven bits are the original type byte.
	s, ok := translateValueType(wasm.ValueType(byte(bt) & 0x7F))
	if !ok {
		return "nil"
	}
	return s + " :: nil"
}

func u32(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

func u32List(vs []uint32) string {
	var b strings.Builder
	for _, v := range vs {
		b.WriteString(u32(v))
		b.WriteString(" :: ")
	}
	b.WriteString("nil")
	return b.String()
}

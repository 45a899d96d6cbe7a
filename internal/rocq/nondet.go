package rocq

import (
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/wasm"
)

// nondetKind distinguishes the four block-shaped extended constructs
// from the two single-instruction uzumaki forms. Opcodes 0x3A and
// 0x3C double as block delimiters and uzumaki markers depending on
// context; resolving that is this package's job, see groupNondet.
type nondetKind int

const (
	nondetForall nondetKind = iota
	nondetExists
	nondetAssume
	nondetUnique
)

// rnode is one element of the grouped instruction tree the emitter
// walks: either a plain WASM instruction (block/loop/if already carry
// their own nested Then/Else from internal/wasm) or a nondeterministic
// block reconstructed from a matched pair of extended opcodes.
type rnode struct {
	plain *wasm.Instruction // non-nil for an ordinary instruction
	uzu   *byte             // non-nil for a standalone uzumaki marker: 0 = i32, 1 = i64

	kind nondetKind
	body []rnode // a nondet block's contents; nil when the block is empty
	isBlock bool // true for a nondet block
}

// groupNondet resolves the extended-opcode ambiguity by scanning a
// flat instruction list with an explicit stack: 0x3A
// opens a tentative forall block; if it is later closed by a matching
// 0x3B at the same nesting depth, the pair becomes a forall block,
// otherwise (no matching close before the enclosing list ends) it
// is a standalone uzumaki-i32 marker. 0x3B, if not closing a pending
// forall, tentatively opens an exists block, closed by 0x3C; an
// unmatched 0x3C is a standalone uzumaki-i64 marker. 0x3D always
// opens an assume block, closed by 0x3E. If 0x3E appears with no
// pending assume, it tentatively opens a unique block, closed by
// 0x3F. The code generator and this translator share this one
// reading; see DESIGN.md for the decision record.
func groupNondet(instrs []wasm.Instruction) ([]rnode, error) {
	g := &grouper{}
	return g.run(instrs)
}

type pending struct {
	kind nondetKind
	body []rnode
}

type grouper struct {
	stack []pending
}

func (g *grouper) run(instrs []wasm.Instruction) ([]rnode, error) {
	var out []rnode
	for i := range instrs {
		in := &instrs[i]
		if in.Op == 0xFC {
			node, emit, err := g.handleExtended(in)
			if err != nil {
				return nil, err
			}
			if emit {
				g.emit(&out, node)
			}
			continue
		}
		g.emit(&out, rnode{plain: in})
	}
	// Anything still open when the enclosing list ends never matched;
	// 0x3A/0x3B resolve to standalone uzumaki markers in that case,
	// placed where the opening opcode sat (before the instructions
	// that followed it). Assume/unique have no such fallback and are
	// malformed.
	for len(g.stack) > 0 {
		p := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]
		var resolved []rnode
		switch p.kind {
		case nondetForall:
			resolved = append([]rnode{zeroByteNode(0)}, p.body...)
		case nondetExists:
			resolved = append([]rnode{zeroByteNode(1)}, p.body...)
		default:
			return nil, diag.Diagnostic{
				Code: diag.CodeMalformedWasm, Severity: diag.Error,
				Message: "unmatched assume/unique block in extended-opcode stream",
			}
		}
		if len(g.stack) > 0 {
			top := &g.stack[len(g.stack)-1]
			top.body = append(top.body, resolved...)
		} else {
			out = append(out, resolved...)
		}
	}
	return out, nil
}

func zeroByteNode(v byte) rnode {
	b := v
	return rnode{uzu: &b}
}

func (g *grouper) emit(out *[]rnode, n rnode) {
	if len(g.stack) == 0 {
		*out = append(*out, n)
		return
	}
	top := &g.stack[len(g.stack)-1]
	top.body = append(top.body, n)
}

func (g *grouper) handleExtended(in *wasm.Instruction) (rnode, bool, error) {
	switch in.Op2 {
	case wasm.OpForallStartOrUzumakiI32:
		g.stack = append(g.stack, pending{kind: nondetForall})
		return rnode{}, false, nil // resolved on close or EOF

	case wasm.OpForallEndOrExistsStart:
		if len(g.stack) > 0 && g.stack[len(g.stack)-1].kind == nondetForall {
			p := g.stack[len(g.stack)-1]
			g.stack = g.stack[:len(g.stack)-1]
			return rnode{kind: nondetForall, body: p.body, isBlock: true}, true, nil
		}
		g.stack = append(g.stack, pending{kind: nondetExists})
		return rnode{}, false, nil

	case wasm.OpExistsEndOrUzumakiI64:
		if len(g.stack) > 0 && g.stack[len(g.stack)-1].kind == nondetExists {
			p := g.stack[len(g.stack)-1]
			g.stack = g.stack[:len(g.stack)-1]
			return rnode{kind: nondetExists, body: p.body, isBlock: true}, true, nil
		}
		b := byte(1)
		return rnode{uzu: &b}, true, nil

	case wasm.OpAssumeStart:
		g.stack = append(g.stack, pending{kind: nondetAssume})
		return rnode{}, false, nil

	case wasm.OpAssumeEndOrUniqueStart:
		if len(g.stack) > 0 && g.stack[len(g.stack)-1].kind == nondetAssume {
			p := g.stack[len(g.stack)-1]
			g.stack = g.stack[:len(g.stack)-1]
			return rnode{kind: nondetAssume, body: p.body, isBlock: true}, true, nil
		}
		g.stack = append(g.stack, pending{kind: nondetUnique})
		return rnode{}, false, nil

	case wasm.OpUniqueEnd:
		if len(g.stack) > 0 && g.stack[len(g.stack)-1].kind == nondetUnique {
			p := g.stack[len(g.stack)-1]
			g.stack = g.stack[:len(g.stack)-1]
			return rnode{kind: nondetUnique, body: p.body, isBlock: true}, true, nil
		}
		return rnode{}, false, diag.Diagnostic{
			Code: diag.CodeMalformedWasm, Severity: diag.Error,
			Message: "unique-end with no matching unique-start",
		}

	default:
		return rnode{}, false, diag.Diagnostic{
			Code: diag.CodeUnknownOpcode, Severity: diag.Error,
			Message: "unrecognized extended opcode in 0xFC space",
		}
	}
}

package parser

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
)

var primitiveKinds = map[string]ast.SimpleTypeKind{
	"unit": ast.SimpleUnit,
	"bool": ast.SimpleBool,
	"i8":   ast.SimpleI8,
	"i16":  ast.SimpleI16,
	"i32":  ast.SimpleI32,
	"i64":  ast.SimpleI64,
	"u8":   ast.SimpleU8,
	"u16":  ast.SimpleU16,
	"u32":  ast.SimpleU32,
	"u64":  ast.SimpleU64,
}

// walkType dispatches a type-position CST node into one of the AST's
// Type node kinds. Unrecognized type syntax is
// surfaced as a structural parse error and replaced with a
// SimpleUnit placeholder so the walk can continue; the parser still
// needs *a* node to hang the error diagnostic off of.
func (b *builder) walkType(n *sitter.Node) ast.ID {
	switch n.Type() {
	case "primitive_type", "unit_type":
		text := b.text(n)
		kind, ok := primitiveKinds[text]
		if !ok {
			kind = ast.SimpleUnit
		}
		return b.arena.NewNode(ast.KindSimpleType, b.loc(n), ast.SimpleTypePayload{Kind: kind})

	case "array_type":
		elemNode := b.field(n, "element")
		lenNode := b.field(n, "length")
		id := b.arena.NewNode(ast.KindArrayType, b.loc(n), nil)
		var elem ast.ID
		if elemNode != nil {
			elem = b.walkType(elemNode)
			b.arena.AddChild(id, elem)
		}
		var size uint32
		if lenNode != nil {
			if v, err := strconv.ParseUint(b.text(lenNode), 10, 32); err == nil {
				size = uint32(v)
			}
		}
		b.setPayload(id, ast.ArrayTypePayload{Element: elem, Size: size})
		return id

	case "type_identifier":
		return b.arena.NewNode(ast.KindNamedType, b.loc(n), ast.NamedTypePayload{Name: b.text(n)})

	case "generic_type":
		nameNode := b.field(n, "type")
		argsNode := b.field(n, "type_arguments")
		name := ""
		if nameNode != nil {
			name = b.text(nameNode)
		}
		id := b.arena.NewNode(ast.KindNamedType, b.loc(n), nil)
		var args []ast.ID
		if argsNode != nil {
			for _, c := range namedChildren(argsNode) {
				argID := b.walkType(c)
				b.arena.AddChild(id, argID)
				args = append(args, argID)
			}
		}
		b.setPayload(id, ast.NamedTypePayload{Name: name, TypeArgs: args})
		return id

	case "scoped_type_identifier":
		path := b.scopedPath(n)
		return b.arena.NewNode(ast.KindQualifiedType, b.loc(n), ast.QualifiedTypePayload{Path: path})

	case "function_type":
		paramsNode := b.field(n, "parameters")
		retNode := n.ChildByFieldName("return_type")
		id := b.arena.NewNode(ast.KindFunctionType, b.loc(n), nil)
		var params []ast.ID
		if paramsNode != nil {
			for _, c := range namedChildren(paramsNode) {
				pt := b.walkType(c)
				b.arena.AddChild(id, pt)
				params = append(params, pt)
			}
		}
		var ret ast.ID
		if retNode != nil {
			ret = b.walkType(retNode)
			b.arena.AddChild(id, ret)
		}
		b.setPayload(id, ast.FunctionTypePayload{Params: params, ReturnType: ret})
		return id

	default:
		b.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnsupportedFeature, Severity: diag.Error,
			Message: "unsupported type syntax " + strconv.Quote(n.Type()),
			File:    b.path, Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column) + 1,
		})
		return b.arena.NewNode(ast.KindSimpleType, b.loc(n), ast.SimpleTypePayload{Kind: ast.SimpleUnit})
	}
}

// scopedPath flattens a scoped_identifier / scoped_type_identifier
// node (`a::b::c`) into its segments, left to right.
func (b *builder) scopedPath(n *sitter.Node) []string {
	var path []string
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		switch cur.Type() {
		case "scoped_identifier", "scoped_type_identifier":
			if path0 := b.field(cur, "path"); path0 != nil {
				walk(path0)
			}
			if name := b.field(cur, "name"); name != nil {
				path = append(path, b.text(name))
			}
		default:
			path = append(path, b.text(cur))
		}
	}
	walk(n)
	return path
}

// setPayload overwrites the payload of an already-allocated node. The
// walker allocates array/generic/function type nodes before it knows
// their element ids (it needs the id to call AddChild on while
// descending), so payloads for those kinds are filled in after the
// fact rather than at NewNode time.
func (b *builder) setPayload(id ast.ID, payload any) {
	setNodePayload(b.arena, id, payload)
}

// setNodePayload reaches into the arena to replace a node's payload.
// Kept as a package-level helper (rather than an Arena method) since
// this is a parser-internal construction detail, not part of the
// arena's public query API, which downstream consumers see; payload
// mutation during construction is not part of it).
func setNodePayload(a *arena.Arena, id ast.ID, payload any) {
	if n, ok := a.FindNode(id); ok {
		n.Payload = payload
	}
}

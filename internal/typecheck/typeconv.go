package typecheck

import (
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/types"
)

var simpleToNumber = map[ast.SimpleTypeKind]types.NumberKind{
	ast.SimpleI8: types.I8, ast.SimpleI16: types.I16, ast.SimpleI32: types.I32, ast.SimpleI64: types.I64,
	ast.SimpleU8: types.U8, ast.SimpleU16: types.U16, ast.SimpleU32: types.U32, ast.SimpleU64: types.U64,
}

// astTypeToTypeInfo converts a Type-category AST node into the
// checker's TypeInfo representation. typeParams is the
// set of type-parameter names declared on the definition the type
// node appears in, used to distinguish Generic("T") from a reference
// to a type literally named "T".
// contains InvalidID-safe: a missing node (already reported by the
// parser) yields Unit rather than crashing.
func (c *checker) astTypeToTypeInfo(id ast.ID, typeParams map[string]bool) *types.TypeInfo {
	if !id.Valid() {
		return types.Unit()
	}
	n := c.arena.MustFindNode(id)
	switch n.Kind {
	case ast.KindSimpleType:
		p := n.Payload.(ast.SimpleTypePayload)
		switch p.Kind {
		case ast.SimpleUnit:
			return types.Unit()
		case ast.SimpleBool:
			return types.Bool()
		default:
			if nk, ok := simpleToNumber[p.Kind]; ok {
				return types.Num(nk)
			}
			return types.Unit()
		}

	case ast.KindArrayType:
		p := n.Payload.(ast.ArrayTypePayload)
		return types.Array(c.astTypeToTypeInfo(p.Element, typeParams), p.Size)

	case ast.KindNamedType:
		p := n.Payload.(ast.NamedTypePayload)
		if p.Name == "String" || p.Name == "string" {
			return types.Str()
		}
		if typeParams[p.Name] {
			return types.Generic(p.Name)
		}
		var args []*types.TypeInfo
		for _, a := range p.TypeArgs {
			args = append(args, c.astTypeToTypeInfo(a, typeParams))
		}
		switch {
		case c.structNames[p.Name]:
			return c.hydratedStruct(p.Name, args)
		case c.enumNames[p.Name]:
			return &types.TypeInfo{Kind: types.KindEnum, Name: p.Name, TypeArgs: args}
		case c.specNames[p.Name]:
			return &types.TypeInfo{Kind: types.KindSpec, Name: p.Name, TypeArgs: args}
		default:
			return &types.TypeInfo{Kind: types.KindCustom, Name: p.Name, TypeArgs: args}
		}

	case ast.KindQualifiedType:
		p := n.Payload.(ast.QualifiedTypePayload)
		return types.QualifiedName(p.Path)

	case ast.KindFunctionType:
		p := n.Payload.(ast.FunctionTypePayload)
		var params []*types.TypeInfo
		for _, pr := range p.Params {
			params = append(params, c.astTypeToTypeInfo(pr, typeParams))
		}
		return types.Function(params, c.astTypeToTypeInfo(p.ReturnType, typeParams))

	default:
		return types.Unit()
	}
}

// resolveCustom turns a KindCustom placeholder into the concrete
// Struct/Enum/Spec it now refers to, now that phase 2's registration
// pass has completed and every top-level name is known. Non-Custom
// types pass through unchanged.
func (c *checker) resolveCustom(t *types.TypeInfo) *types.TypeInfo {
	if t == nil || t.Kind != types.KindCustom {
		return t
	}
	switch {
	case c.structNames[t.Name]:
		return c.hydratedStruct(t.Name, t.TypeArgs)
	case c.enumNames[t.Name]:
		cp := *t
		cp.Kind = types.KindEnum
		return &cp
	case c.specNames[t.Name]:
		cp := *t
		cp.Kind = types.KindSpec
		return &cp
	default:
		return t
	}
}

// hydratedStruct returns name's registered Fields/FieldOrder if
// registerStruct has already run for it, with typeArgs attached; a
// forward reference not yet registered (mutually recursive struct
// bodies within phase 2) falls back to the Name-only placeholder,
// since that field's own checking happens once phase 2 finishes for
// every struct, not while resolving a sibling's field type.
func (c *checker) hydratedStruct(name string, typeArgs []*types.TypeInfo) *types.TypeInfo {
	if def, ok := c.structDefs[name]; ok {
		cp := *def
		cp.TypeArgs = typeArgs
		return &cp
	}
	return &types.TypeInfo{Kind: types.KindStruct, Name: name, TypeArgs: typeArgs}
}

func typeParamSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

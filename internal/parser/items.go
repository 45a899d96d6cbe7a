package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/veyra/internal/ast"
)

// walkUseDeclaration handles `use` directives: plain, glob, and
// partial forms each become one or more UseDirective children of the
// enclosing scope's owning node.
func (b *builder) walkUseDeclaration(parent ast.ID, n *sitter.Node) {
	argNode := n.NamedChild(0)
	if argNode == nil {
		return
	}
	b.walkUseArgument(parent, argNode, nil)
}

// walkUseArgument recursively flattens nested use trees
// (`use a::{b, c::d}`) by threading the path segments accumulated so
// far down through scoped_identifier / use_list / use_wildcard /
// use_as_clause nodes.
func (b *builder) walkUseArgument(parent ast.ID, n *sitter.Node, prefix []string) {
	switch n.Type() {
	case "use_wildcard":
		path := prefix
		if inner := n.NamedChild(0); inner != nil {
			path = append(append([]string{}, prefix...), b.scopedPath(inner)...)
		}
		id := b.arena.NewNode(ast.KindUseDirective, b.loc(n), ast.UseDirectivePayload{Path: path, Glob: true})
		b.arena.AddChild(parent, id)

	case "use_as_clause":
		pathNode := b.field(n, "path")
		aliasNode := b.field(n, "alias")
		var full []string
		if pathNode != nil {
			full = append(append([]string{}, prefix...), b.scopedPath(pathNode)...)
		}
		// The record's Path is the module prefix only; the terminal
		// segment is the imported symbol itself and lives in Items, so
		// import resolution walks modules up to it, not through it.
		var modPath []string
		orig := last(full)
		if len(full) > 0 {
			modPath = full[:len(full)-1]
		}
		local := orig
		if aliasNode != nil {
			local = b.text(aliasNode)
		}
		id := b.arena.NewNode(ast.KindUseDirective, b.loc(n), ast.UseDirectivePayload{
			Path: modPath, Partial: true,
			Items: []ast.PartialImportItem{{OriginalName: orig, LocalName: local}},
		})
		b.arena.AddChild(parent, id)

	case "use_list":
		// A bare use_list (reached from scoped_use_list) has no path
		// field of its own; the prefix already carries it.
		base := n.ChildByFieldName("path")
		full := prefix
		if base != nil {
			full = append(append([]string{}, prefix...), b.scopedPath(base)...)
		}
		for _, item := range namedChildren(n) {
			if item == base {
				continue
			}
			b.walkUseArgument(parent, item, full)
		}

	case "scoped_use_list":
		base := b.field(n, "path")
		listNode := b.field(n, "list")
		full := prefix
		if base != nil {
			full = append(append([]string{}, prefix...), b.scopedPath(base)...)
		}
		if listNode != nil {
			b.walkUseArgument(parent, listNode, full)
		}

	case "identifier", "scoped_identifier":
		path := append(append([]string{}, prefix...), b.scopedPath(n)...)
		id := b.arena.NewNode(ast.KindUseDirective, b.loc(n), ast.UseDirectivePayload{Path: path})
		b.arena.AddChild(parent, id)

	default:
		path := append(append([]string{}, prefix...), b.text(n))
		id := b.arena.NewNode(ast.KindUseDirective, b.loc(n), ast.UseDirectivePayload{Path: path})
		b.arena.AddChild(parent, id)
	}
}

func last(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// walkFunction builds a FunctionDef node for both free functions and
// methods. receiver is only set by walkImpl and walkSpec; a top-level
// call passes "". The boolean parameter is ignored: HasSelf is always
// derived from the presence of a self_parameter in the grammar's own
// parameter list.
func (b *builder) walkFunction(n *sitter.Node, receiver string, _ bool) ast.ID {
	nameNode := b.field(n, "name")
	paramsNode := b.field(n, "parameters")
	bodyNode := b.field(n, "body")

	id := b.arena.NewNode(ast.KindFunctionDef, b.loc(n), nil)

	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}

	var typeParams []string
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		for _, c := range namedChildren(tp) {
			typeParams = append(typeParams, b.text(c))
		}
	}

	var params []ast.ID
	hasSelf := false
	if paramsNode != nil {
		for _, p := range namedChildren(paramsNode) {
			if p.Type() == "self_parameter" {
				hasSelf = true
				continue
			}
			argID := b.walkParameter(p)
			b.arena.AddChild(id, argID)
			params = append(params, argID)
		}
	}

	var retType ast.ID
	if retNode := n.ChildByFieldName("return_type"); retNode != nil {
		retType = b.walkType(retNode)
		b.arena.AddChild(id, retType)
	}

	var body ast.ID
	if bodyNode != nil {
		body = b.walkBlock(bodyNode)
		b.arena.AddChild(id, body)
	}

	b.setPayload(id, ast.FunctionDefPayload{
		Name:       name,
		Visibility: visibilityOf(n),
		TypeParams: typeParams,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		Receiver:   receiver,
		HasSelf:    hasSelf,
	})
	return id
}

func (b *builder) walkParameter(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "pattern")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("name")
	}
	typeNode := b.field(n, "type")

	id := b.arena.NewNode(ast.KindArgument, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var typeID ast.ID
	if typeNode != nil {
		typeID = b.walkType(typeNode)
		b.arena.AddChild(id, typeID)
	}
	b.setPayload(id, ast.ArgumentPayload{Name: name, Type: typeID})
	return id
}

func (b *builder) walkStruct(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	bodyNode := b.field(n, "body")

	id := b.arena.NewNode(ast.KindStructDef, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var typeParams []string
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		for _, c := range namedChildren(tp) {
			typeParams = append(typeParams, b.text(c))
		}
	}
	var fields []ast.ID
	if bodyNode != nil {
		for _, f := range namedChildren(bodyNode) {
			if f.Type() != "field_declaration" {
				continue
			}
			fieldID := b.walkField(f)
			b.arena.AddChild(id, fieldID)
			fields = append(fields, fieldID)
		}
	}
	b.setPayload(id, ast.StructDefPayload{
		Name: name, Visibility: visibilityOf(n), TypeParams: typeParams, Fields: fields,
	})
	return id
}

func (b *builder) walkField(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	typeNode := b.field(n, "type")

	id := b.arena.NewNode(ast.KindField, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var typeID ast.ID
	if typeNode != nil {
		typeID = b.walkType(typeNode)
		b.arena.AddChild(id, typeID)
	}
	b.setPayload(id, ast.FieldPayload{Name: name, Type: typeID, Visibility: visibilityOf(n)})
	return id
}

func (b *builder) walkEnum(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	bodyNode := b.field(n, "body")

	id := b.arena.NewNode(ast.KindEnumDef, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var variants []ast.ID
	if bodyNode != nil {
		for _, v := range namedChildren(bodyNode) {
			if v.Type() != "enum_variant" {
				continue
			}
			varID := b.arena.NewNode(ast.KindEnumVariant, b.loc(v), ast.EnumVariantPayload{Name: b.text(b.field(v, "name"))})
			b.arena.AddChild(id, varID)
			variants = append(variants, varID)
		}
	}
	b.setPayload(id, ast.EnumDefPayload{Name: name, Visibility: visibilityOf(n), Variants: variants})
	return id
}

func (b *builder) walkConst(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	typeNode := n.ChildByFieldName("type")
	valueNode := b.field(n, "value")

	id := b.arena.NewNode(ast.KindConstDef, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var typeID ast.ID
	if typeNode != nil {
		typeID = b.walkType(typeNode)
		b.arena.AddChild(id, typeID)
	}
	var valueID ast.ID
	if valueNode != nil {
		valueID = b.walkExpr(valueNode)
		b.arena.AddChild(id, valueID)
	}
	b.setPayload(id, ast.ConstDefPayload{Name: name, Visibility: visibilityOf(n), Type: typeID, Value: valueID})
	return id
}

func (b *builder) walkTypeAlias(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	typeNode := b.field(n, "type")

	id := b.arena.NewNode(ast.KindTypeAliasDef, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var typeParams []string
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		for _, c := range namedChildren(tp) {
			typeParams = append(typeParams, b.text(c))
		}
	}
	var aliased ast.ID
	if typeNode != nil {
		aliased = b.walkType(typeNode)
		b.arena.AddChild(id, aliased)
	}
	b.setPayload(id, ast.TypeAliasDefPayload{Name: name, Visibility: visibilityOf(n), TypeParams: typeParams, Aliased: aliased})
	return id
}

func (b *builder) walkModule(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	bodyNode := n.ChildByFieldName("body")

	id := b.arena.NewNode(ast.KindModuleDef, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var members []ast.ID
	if bodyNode != nil {
		for _, c := range namedChildren(bodyNode) {
			before := len(b.arena.Children(id))
			b.walkTopLevel(id, c)
			after := b.arena.Children(id)
			if len(after) > before {
				members = append(members, after[len(after)-1])
			}
		}
	}
	b.setPayload(id, ast.ModuleDefPayload{Name: name, Visibility: visibilityOf(n), Members: members})
	return id
}

func (b *builder) walkImpl(n *sitter.Node) ast.ID {
	typeNode := b.field(n, "type")
	bodyNode := n.ChildByFieldName("body")

	id := b.arena.NewNode(ast.KindImplDef, b.loc(n), nil)
	targetName := ""
	if typeNode != nil {
		targetName = b.text(typeNode)
	}
	var typeParams []string
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		for _, c := range namedChildren(tp) {
			typeParams = append(typeParams, b.text(c))
		}
	}
	var methods []ast.ID
	if bodyNode != nil {
		for _, m := range namedChildren(bodyNode) {
			if m.Type() != "function_item" {
				continue
			}
			methodID := b.walkFunction(m, targetName, false)
			b.arena.AddChild(id, methodID)
			methods = append(methods, methodID)
		}
	}
	b.setPayload(id, ast.ImplDefPayload{TargetTypeName: targetName, TypeParams: typeParams, Methods: methods})
	return id
}

func (b *builder) walkSpec(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	bodyNode := n.ChildByFieldName("body")

	id := b.arena.NewNode(ast.KindSpecDef, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var members []ast.ID
	if bodyNode != nil {
		for _, m := range namedChildren(bodyNode) {
			if m.Type() != "function_signature_item" && m.Type() != "function_item" {
				continue
			}
			methodID := b.walkFunction(m, name, false)
			b.arena.AddChild(id, methodID)
			members = append(members, methodID)
		}
	}
	b.setPayload(id, ast.SpecDefPayload{Name: name, Visibility: visibilityOf(n), Members: members})
	return id
}

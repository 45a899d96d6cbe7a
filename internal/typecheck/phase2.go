package typecheck

import (
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/symtab"
	"github.com/oxhq/veyra/internal/types"
)

// phase2RegisterTypes registers type definitions in two internal passes:
// the first collects every struct/enum/spec name (so mutually
// recursive type references resolve regardless of declaration order),
// the second fills in each definition's actual fields/variants/alias
// target and declares its Symbol.
func (c *checker) phase2RegisterTypes() {
	for _, root := range c.arena.Roots() {
		c.scopeOf[root] = symtab.RootScope
		c.collectTypeNames(root, symtab.RootScope)
	}
	for _, root := range c.arena.Roots() {
		c.registerTypeDetails(root, symtab.RootScope)
	}
}

func (c *checker) collectTypeNames(container ast.ID, scope symtab.ScopeID) {
	for _, childID := range c.arena.Children(container) {
		n := c.arena.MustFindNode(childID)
		switch n.Kind {
		case ast.KindStructDef:
			c.structNames[n.Payload.(ast.StructDefPayload).Name] = true
		case ast.KindEnumDef:
			c.enumNames[n.Payload.(ast.EnumDefPayload).Name] = true
		case ast.KindSpecDef:
			c.specNames[n.Payload.(ast.SpecDefPayload).Name] = true
		case ast.KindModuleDef:
			p := n.Payload.(ast.ModuleDefPayload)
			child := c.syms.NewScope(scope)
			c.scopeOf[childID] = child
			sym := &symtab.Symbol{
				Name: p.Name, Kind: symtab.SymModule, Visibility: p.Visibility,
				DeclNode: childID, DefiningScope: scope, InnerScope: child,
			}
			if !c.syms.Declare(scope, sym) {
				c.duplicateSymbol(n, p.Name)
			}
			c.collectTypeNames(childID, child)
		}
	}
}

func (c *checker) registerTypeDetails(container ast.ID, scope symtab.ScopeID) {
	for _, childID := range c.arena.Children(container) {
		n := c.arena.MustFindNode(childID)
		switch n.Kind {
		case ast.KindTypeAliasDef:
			c.registerTypeAlias(childID, n, scope)
		case ast.KindStructDef:
			c.registerStruct(childID, n, scope)
		case ast.KindEnumDef:
			c.registerEnum(childID, n, scope)
		case ast.KindSpecDef:
			c.registerSpec(childID, n, scope)
		case ast.KindModuleDef:
			p := n.Payload.(ast.ModuleDefPayload)
			inner := c.scopeOf[childID]
			c.recordUseDirectivesIn(childID, inner)
			c.registerTypeDetails(childID, inner)
			_ = p
		}
	}
}

func (c *checker) registerTypeAlias(id ast.ID, n *ast.Node, scope symtab.ScopeID) {
	p := n.Payload.(ast.TypeAliasDefPayload)
	c.declTypeParams[id] = p.TypeParams
	tp := typeParamSet(p.TypeParams)
	aliased := c.astTypeToTypeInfo(p.Aliased, tp)

	sym := &symtab.Symbol{
		Name: p.Name, Kind: symtab.SymTypeAlias, Visibility: p.Visibility,
		DeclNode: id, DefiningScope: scope, Type: aliased, TypeParams: p.TypeParams,
	}
	if !c.syms.Declare(scope, sym) {
		c.duplicateSymbol(n, p.Name)
	}
}

func (c *checker) registerStruct(id ast.ID, n *ast.Node, scope symtab.ScopeID) {
	p := n.Payload.(ast.StructDefPayload)
	c.declTypeParams[id] = p.TypeParams
	tp := typeParamSet(p.TypeParams)

	fields := make(map[string]*types.TypeInfo)
	var order []string
	vis := make(map[string]ast.Visibility)
	seen := make(map[string]bool)
	for _, fieldID := range p.Fields {
		fn := c.arena.MustFindNode(fieldID)
		fp := fn.Payload.(ast.FieldPayload)
		if seen[fp.Name] {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeDuplicateField, Severity: diag.Error,
				Message: "duplicate field `" + fp.Name + "` in struct `" + p.Name + "`",
				File:    c.fileOf(id), Line: fn.Location.StartLine, Column: fn.Location.StartColumn,
			})
			continue
		}
		seen[fp.Name] = true
		fields[fp.Name] = c.astTypeToTypeInfo(fp.Type, tp)
		order = append(order, fp.Name)
		vis[fp.Name] = fp.Visibility
	}
	c.fieldVisibility[p.Name] = vis

	ti := &types.TypeInfo{Kind: types.KindStruct, Name: p.Name, Fields: fields, FieldOrder: order}
	c.structDefs[p.Name] = ti
	sym := &symtab.Symbol{
		Name: p.Name, Kind: symtab.SymStruct, Visibility: p.Visibility,
		DeclNode: id, DefiningScope: scope, Type: ti, TypeParams: p.TypeParams,
	}
	if !c.syms.Declare(scope, sym) {
		c.duplicateSymbol(n, p.Name)
	}
}

func (c *checker) registerEnum(id ast.ID, n *ast.Node, scope symtab.ScopeID) {
	p := n.Payload.(ast.EnumDefPayload)

	var variants []string
	seen := make(map[string]bool)
	for _, vID := range p.Variants {
		vn := c.arena.MustFindNode(vID)
		vp := vn.Payload.(ast.EnumVariantPayload)
		if seen[vp.Name] {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeDuplicateEnumVariant, Severity: diag.Error,
				Message: "duplicate variant `" + vp.Name + "` in enum `" + p.Name + "`",
				File:    c.fileOf(id), Line: vn.Location.StartLine, Column: vn.Location.StartColumn,
			})
			continue
		}
		seen[vp.Name] = true
		variants = append(variants, vp.Name)
	}

	ti := &types.TypeInfo{Kind: types.KindEnum, Name: p.Name, Variants: variants}
	sym := &symtab.Symbol{
		Name: p.Name, Kind: symtab.SymEnum, Visibility: p.Visibility,
		DeclNode: id, DefiningScope: scope, Type: ti,
	}
	if !c.syms.Declare(scope, sym) {
		c.duplicateSymbol(n, p.Name)
	}
}

func (c *checker) registerSpec(id ast.ID, n *ast.Node, scope symtab.ScopeID) {
	p := n.Payload.(ast.SpecDefPayload)
	ti := &types.TypeInfo{Kind: types.KindSpec, Name: p.Name}
	sym := &symtab.Symbol{
		Name: p.Name, Kind: symtab.SymSpec, Visibility: p.Visibility,
		DeclNode: id, DefiningScope: scope, Type: ti,
	}
	if !c.syms.Declare(scope, sym) {
		c.duplicateSymbol(n, p.Name)
	}
}

func (c *checker) duplicateSymbol(n *ast.Node, name string) {
	c.errs.Add(diag.Diagnostic{
		Code: diag.CodeDuplicateSymbol, Severity: diag.Error,
		Message: "duplicate symbol `" + name + "` in this scope",
		File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
	})
}

// fileOf returns the path of the source file enclosing id, for
// diagnostic positioning.
func (c *checker) fileOf(id ast.ID) string {
	fileID, ok := c.arena.FindSourceFileForNode(id)
	if !ok {
		return ""
	}
	fn, _ := c.arena.FindNode(fileID)
	if fn == nil {
		return ""
	}
	return fn.Payload.(ast.SourceFilePayload).Path
}

package typecheck

import (
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/symtab"
	"github.com/oxhq/veyra/internal/types"
)

// phase4CollectFunctions registers callables: top-level functions,
// methods on impl blocks, and top-level constants are
// registered, with type parameters recorded so references to them
// resolve to Generic(p) in phase 5.
func (c *checker) phase4CollectFunctions() {
	for _, root := range c.arena.Roots() {
		c.collectFunctionsIn(root, symtab.RootScope)
	}
}

func (c *checker) collectFunctionsIn(container ast.ID, scope symtab.ScopeID) {
	for _, childID := range c.arena.Children(container) {
		n := c.arena.MustFindNode(childID)
		switch n.Kind {
		case ast.KindFunctionDef:
			c.registerFunction(childID, n, scope, "")
		case ast.KindConstDef:
			c.registerConst(childID, n, scope)
		case ast.KindImplDef:
			c.registerImpl(childID, n, scope)
		case ast.KindModuleDef:
			c.collectFunctionsIn(childID, c.scopeOf[childID])
		}
	}
}

func (c *checker) registerFunction(id ast.ID, n *ast.Node, scope symtab.ScopeID, receiver string) {
	p := n.Payload.(ast.FunctionDefPayload)
	c.declTypeParams[id] = p.TypeParams
	tp := typeParamSet(p.TypeParams)

	var params []*types.TypeInfo
	for _, argID := range p.Params {
		an := c.arena.MustFindNode(argID)
		ap := an.Payload.(ast.ArgumentPayload)
		params = append(params, c.astTypeToTypeInfo(ap.Type, tp))
	}
	ret := c.astTypeToTypeInfo(p.ReturnType, tp)

	kind := symtab.SymFunction
	if receiver != "" {
		kind = symtab.SymMethod
	}
	sym := &symtab.Symbol{
		Name: p.Name, Kind: kind, Visibility: p.Visibility,
		DeclNode: id, DefiningScope: scope,
		Type:       types.Function(params, ret),
		TypeParams: p.TypeParams,
		ReceiverOf: receiver,
	}

	if receiver != "" {
		if !c.syms.DeclareMethod(receiver, sym) {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeDuplicateMethod, Severity: diag.Error,
				Message: "duplicate method `" + p.Name + "` on `" + receiver + "`",
				File:    c.fileOf(id), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
		return
	}
	if !c.syms.Declare(scope, sym) {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeDuplicateFunction, Severity: diag.Error,
			Message: "duplicate function `" + p.Name + "`",
			File:    c.fileOf(id), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
}

func (c *checker) registerConst(id ast.ID, n *ast.Node, scope symtab.ScopeID) {
	p := n.Payload.(ast.ConstDefPayload)
	var t *types.TypeInfo
	if p.Type.Valid() {
		t = c.astTypeToTypeInfo(p.Type, nil)
	}
	sym := &symtab.Symbol{
		Name: p.Name, Kind: symtab.SymConstant, Visibility: p.Visibility,
		DeclNode: id, DefiningScope: scope, Type: t,
	}
	if !c.syms.Declare(scope, sym) {
		c.duplicateSymbol(n, p.Name)
	}
}

func (c *checker) registerImpl(id ast.ID, n *ast.Node, scope symtab.ScopeID) {
	p := n.Payload.(ast.ImplDefPayload)
	for _, methodID := range p.Methods {
		mn := c.arena.MustFindNode(methodID)
		c.registerFunction(methodID, mn, scope, p.TargetTypeName)
	}
}

package typecheck

import (
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/symtab"
	"github.com/oxhq/veyra/internal/types"
)

// inferCtx threads the bidirectional checker's local context
// explicitly as a parameter rather than mutable checker state. It is
// passed by value; entering a child scope or a nondeterministic block
// produces a new copy rather than mutating a shared one.
type inferCtx struct {
	scope      symtab.ScopeID
	typeParams map[string]bool
	returnType *types.TypeInfo
	receiver   string
	inNondet   bool
}

// phase5InferVariables walks every function body bidirectionally,
// populating nodeTypes for every value expression.
func (c *checker) phase5InferVariables() {
	for _, root := range c.arena.Roots() {
		c.inferContainer(root, symtab.RootScope)
	}
}

func (c *checker) inferContainer(container ast.ID, scope symtab.ScopeID) {
	for _, childID := range c.arena.Children(container) {
		n := c.arena.MustFindNode(childID)
		switch n.Kind {
		case ast.KindFunctionDef:
			c.inferFunction(childID, n, scope, "")
		case ast.KindImplDef:
			p := n.Payload.(ast.ImplDefPayload)
			for _, methodID := range p.Methods {
				mn := c.arena.MustFindNode(methodID)
				c.inferFunction(methodID, mn, scope, p.TargetTypeName)
			}
		case ast.KindConstDef:
			p := n.Payload.(ast.ConstDefPayload)
			if p.Value.Valid() {
				var expected *types.TypeInfo
				if p.Type.Valid() {
					expected = c.resolveCustom(c.astTypeToTypeInfo(p.Type, nil))
				}
				c.checkAgainst(p.Value, expected, "VariableDefinition", "", inferCtx{scope: scope, typeParams: map[string]bool{}})
			}
		case ast.KindModuleDef:
			c.inferContainer(childID, c.scopeOf[childID])
		}
	}
}

func (c *checker) inferFunction(id ast.ID, n *ast.Node, scope symtab.ScopeID, receiver string) {
	p := n.Payload.(ast.FunctionDefPayload)
	tp := typeParamSet(p.TypeParams)
	fnScope := c.syms.NewScope(scope)

	if receiver != "" && p.HasSelf {
		selfType := c.receiverTypeInfo(receiver)
		c.syms.Declare(fnScope, &symtab.Symbol{
			Name: "self", Kind: symtab.SymVariable, Type: selfType, DefiningScope: fnScope,
		})
	}
	for _, argID := range p.Params {
		an := c.arena.MustFindNode(argID)
		ap := an.Payload.(ast.ArgumentPayload)
		c.syms.Declare(fnScope, &symtab.Symbol{
			Name: ap.Name, Kind: symtab.SymVariable,
			Type: c.resolveCustom(c.astTypeToTypeInfo(ap.Type, tp)), DefiningScope: fnScope,
		})
	}

	returnType := c.resolveCustom(c.astTypeToTypeInfo(p.ReturnType, tp))
	ictx := inferCtx{scope: fnScope, typeParams: tp, returnType: returnType, receiver: receiver}

	if p.Body.Valid() {
		bodyType := c.inferBlock(p.Body, ictx)
		bn := c.arena.MustFindNode(p.Body)
		bp := bn.Payload.(ast.BlockExprPayload)
		if bp.Tail.Valid() {
			c.compareTypes(bn, returnType, bodyType, "Return", "")
		}
	}
}

func (c *checker) receiverTypeInfo(receiver string) *types.TypeInfo {
	switch {
	case c.structNames[receiver]:
		return c.hydratedStruct(receiver, nil)
	case c.enumNames[receiver]:
		return &types.TypeInfo{Kind: types.KindEnum, Name: receiver}
	default:
		return &types.TypeInfo{Kind: types.KindCustom, Name: receiver}
	}
}

// inferBlock builds a fresh child scope for the block, runs every
// statement, and returns the tail expression's type (Unit if there
// is none).
func (c *checker) inferBlock(blockID ast.ID, ictx inferCtx) *types.TypeInfo {
	n := c.arena.MustFindNode(blockID)
	p := n.Payload.(ast.BlockExprPayload)

	local := ictx
	local.scope = c.syms.NewScope(ictx.scope)

	for _, stmtID := range p.Statements {
		c.inferStmt(stmtID, local)
	}

	var tailType *types.TypeInfo
	if p.Tail.Valid() {
		tailType = c.infer(p.Tail, local)
	} else {
		tailType = types.Unit()
	}
	c.nodeTypes[blockID] = tailType
	return tailType
}

func (c *checker) inferStmt(stmtID ast.ID, ictx inferCtx) {
	n := c.arena.MustFindNode(stmtID)
	switch n.Kind {
	case ast.KindLetStmt:
		p := n.Payload.(ast.LetStmtPayload)
		var declared *types.TypeInfo
		if p.DeclaredType.Valid() {
			declared = c.resolveCustom(c.astTypeToTypeInfo(p.DeclaredType, ictx.typeParams))
		}
		var valType *types.TypeInfo
		if p.Value.Valid() {
			valType = c.checkAgainst(p.Value, declared, "VariableDefinition", "", ictx)
		}
		final := declared
		if final == nil {
			final = valType
		}
		if final == nil {
			final = types.Unit()
		}
		c.syms.Declare(ictx.scope, &symtab.Symbol{Name: p.Name, Kind: symtab.SymVariable, Type: final, DefiningScope: ictx.scope})

	case ast.KindAssignStmt:
		p := n.Payload.(ast.AssignStmtPayload)
		var targetType *types.TypeInfo
		if p.Target.Valid() {
			targetType = c.infer(p.Target, ictx)
		}
		if p.Value.Valid() {
			c.checkAgainst(p.Value, targetType, "Assignment", "", ictx)
		}

	case ast.KindReturnStmt:
		p := n.Payload.(ast.ReturnStmtPayload)
		expected := ictx.returnType
		if expected == nil {
			expected = types.Unit()
		}
		if p.Value.Valid() {
			c.checkAgainst(p.Value, expected, "Return", "", ictx)
		} else if expected.Kind != types.KindUnit {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeTypeMismatch, Severity: diag.Error,
				Message: "expected " + expected.String() + ", found ()",
				Detail:  "Return",
				File:    c.fileOf(stmtID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}

	case ast.KindIfStmt:
		p := n.Payload.(ast.IfStmtPayload)
		if p.Condition.Valid() {
			c.checkAgainst(p.Condition, types.Bool(), "Condition", "", ictx)
		}
		if p.Then.Valid() {
			c.inferBlock(p.Then, ictx)
		}
		if p.Else.Valid() {
			en := c.arena.MustFindNode(p.Else)
			if en.Kind == ast.KindIfStmt {
				c.inferStmt(p.Else, ictx)
			} else {
				c.inferBlock(p.Else, ictx)
			}
		}

	case ast.KindWhileStmt:
		p := n.Payload.(ast.WhileStmtPayload)
		if p.Condition.Valid() {
			c.checkAgainst(p.Condition, types.Bool(), "Condition", "", ictx)
		}
		if p.Body.Valid() {
			c.inferBlock(p.Body, ictx)
		}

	case ast.KindLoopStmt:
		p := n.Payload.(ast.LoopStmtPayload)
		if p.Body.Valid() {
			c.inferBlock(p.Body, ictx)
		}

	case ast.KindBreakStmt:
		// No-op: carries no value to check.

	case ast.KindExprStmt:
		p := n.Payload.(ast.ExprStmtPayload)
		if p.Expr.Valid() {
			c.infer(p.Expr, ictx)
		}

	case ast.KindForallBlock, ast.KindExistsBlock, ast.KindAssumeBlock, ast.KindUniqueBlock:
		c.inferNondetBlock(n, ictx)
	}
}

func (c *checker) inferNondetBlock(n *ast.Node, ictx inferCtx) {
	p := n.Payload.(ast.BlockTypePayload)
	local := ictx
	local.scope = c.syms.NewScope(ictx.scope)
	local.inNondet = true
	for _, stmtID := range p.Statements {
		c.inferStmt(stmtID, local)
	}
}

// checkAgainst is phase 5's "check" half: it synthesizes id's type
// (specializing for uzumaki and an empty array literal, the two
// shapes that genuinely need the expected type rather than merely
// being compared against it) and reports a TypeMismatch if expected
// is non-nil and disagrees.
func (c *checker) checkAgainst(id ast.ID, expected *types.TypeInfo, variant, detail string, ictx inferCtx) *types.TypeInfo {
	n := c.arena.MustFindNode(id)

	var result *types.TypeInfo
	switch {
	case n.Kind == ast.KindUzumakiExpr:
		result = c.inferUzumaki(n, expected, ictx)
	case n.Kind == ast.KindArrayLiteralExpr && isEmptyArrayLiteral(n) && expected != nil:
		if expected.Kind == types.KindArray {
			result = expected
		} else {
			result = types.Array(types.Unit(), 0)
			c.compareTypes(n, expected, result, variant, detail)
		}
	default:
		result = c.infer(id, ictx)
		if expected != nil {
			c.compareTypes(n, expected, result, variant, detail)
		}
	}
	c.nodeTypes[id] = result
	return result
}

func (c *checker) compareTypes(n *ast.Node, expected, found *types.TypeInfo, variant, detail string) {
	if expected == nil || found == nil || expected.Equal(found) {
		return
	}
	d := detail
	if d == "" {
		d = variant
	} else {
		d = variant + ": " + detail
	}
	code := diag.CodeTypeMismatch
	if expected.Kind == types.KindArray && found.Kind == types.KindArray &&
		expected.Element.Equal(found.Element) && expected.Size != found.Size {
		code = diag.CodeArraySizeMismatch
	}
	c.errs.Add(diag.Diagnostic{
		Code: code, Severity: diag.Error,
		Message: "expected " + expected.String() + ", found " + found.String(),
		Detail:  d,
		File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
	})
}

func isEmptyArrayLiteral(n *ast.Node) bool {
	p, ok := n.Payload.(ast.ArrayLiteralExprPayload)
	return ok && len(p.Elements) == 0
}

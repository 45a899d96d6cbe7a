package typecheck

import (
	"strconv"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/symtab"
	"github.com/oxhq/veyra/internal/types"
)

// infer is phase 5's pure bottom-up synthesizer: given an expression
// id it returns its type with no expected-type input. The two shapes
// that genuinely need an expected type (the uzumaki operator and an
// empty array literal) are only reachable with one through
// checkAgainst; met here directly they report that the context was
// missing and fall back (uzumaki to Unit, an empty array literal to a
// zero-length array of Unit) so the walk can keep going.
func (c *checker) infer(id ast.ID, ictx inferCtx) *types.TypeInfo {
	n := c.arena.MustFindNode(id)
	var result *types.TypeInfo

	switch n.Kind {
	case ast.KindLiteralExpr:
		result = c.inferLiteral(n)
	case ast.KindIdentifierExpr:
		result = c.inferIdentifier(n, ictx)
	case ast.KindBinaryExpr:
		result = c.inferBinary(n, ictx)
	case ast.KindUnaryExpr:
		result = c.inferUnary(n, ictx)
	case ast.KindCallExpr:
		result = c.inferCall(n, ictx)
	case ast.KindMethodCallExpr:
		result = c.inferMethodCall(n, ictx)
	case ast.KindFieldAccessExpr:
		result = c.inferFieldAccess(n, ictx)
	case ast.KindIndexExpr:
		result = c.inferIndex(n, ictx)
	case ast.KindArrayLiteralExpr:
		result = c.inferArrayLiteral(n, ictx)
	case ast.KindStructLiteralExpr:
		result = c.inferStructLiteral(n, ictx)
	case ast.KindTypeMemberExpr:
		result = c.inferTypeMember(n)
	case ast.KindUzumakiExpr:
		result = c.inferUzumaki(n, nil, ictx)
	case ast.KindBlockExpr:
		result = c.inferBlock(id, ictx)
	case ast.KindIfExpr:
		result = c.inferIfExpr(n, ictx)
	case ast.KindCastExpr:
		result = c.inferCast(n, ictx)
	default:
		result = types.Unit()
	}

	c.nodeTypes[id] = result
	return result
}

func (c *checker) inferLiteral(n *ast.Node) *types.TypeInfo {
	p := n.Payload.(ast.LiteralExprPayload)
	ln := c.arena.MustFindNode(p.Literal)
	switch ln.Kind {
	case ast.KindNumberLit:
		lp := ln.Payload.(ast.NumberLitPayload)
		if nk, ok := numberSuffixKind(lp.Suffix); ok {
			return types.Num(nk)
		}
		return types.Num(types.I32)
	case ast.KindBoolLit:
		return types.Bool()
	case ast.KindStringLit:
		return types.Str()
	case ast.KindUnitLit:
		return types.Unit()
	default:
		return types.Unit()
	}
}

var numberSuffixKinds = map[string]types.NumberKind{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
}

func numberSuffixKind(suffix string) (types.NumberKind, bool) {
	if suffix == "" {
		return 0, false
	}
	nk, ok := numberSuffixKinds[suffix]
	return nk, ok
}

func (c *checker) inferIdentifier(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.IdentifierExprPayload)
	sym, ok := c.syms.Lookup(ictx.scope, p.Name)
	if !ok {
		if p.Name == "self" {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeInvalidSelfReference, Severity: diag.Error,
				Message: "`self` is only legal inside a method taking self",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			return types.Unit()
		}
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnknownIdentifier, Severity: diag.Error,
			Message: "unknown identifier `" + p.Name + "`",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Unit()
	}
	if sym.Type == nil {
		return types.Unit()
	}
	return sym.Type
}

func (c *checker) inferUzumaki(n *ast.Node, expected *types.TypeInfo, ictx inferCtx) *types.TypeInfo {
	if !ictx.inNondet {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeInvalidOperator, Severity: diag.Error,
			Message: "`@` is only legal inside a forall/exists/assume/unique block",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Unit()
	}
	if expected != nil {
		return expected
	}
	c.errs.Add(diag.Diagnostic{
		Code: diag.CodeInvalidOperator, Severity: diag.Error,
		Message: "`@` requires a contextual expected type (e.g. a let annotation)",
		File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
	})
	return types.Unit()
}

func (c *checker) inferIndex(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.IndexExprPayload)
	targetType := c.infer(p.Target, ictx)
	if targetType.Kind != types.KindArray {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeArrayIndexOnNonArray, Severity: diag.Error,
			Message: "cannot index into non-array type " + targetType.String(),
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		c.infer(p.Index, ictx)
		return types.Unit()
	}
	idxType := c.infer(p.Index, ictx)
	if idxType.Kind != types.KindNumber {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeArrayIndexTypeMismatch, Severity: diag.Error,
			Message: "array index must be a number, found " + idxType.String(),
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
	return targetType.Element
}

func (c *checker) inferArrayLiteral(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.ArrayLiteralExprPayload)
	if len(p.Elements) == 0 {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeEmptyArrayWithoutType, Severity: diag.Error,
			Message: "cannot infer the element type of an empty array literal without a contextual type",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Array(types.Unit(), 0)
	}
	first := c.infer(p.Elements[0], ictx)
	for _, elemID := range p.Elements[1:] {
		c.checkAgainst(elemID, first, "ArrayElement", "", ictx)
	}
	return types.Array(first, uint32(len(p.Elements)))
}

func (c *checker) inferFieldAccess(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.FieldAccessExprPayload)
	targetType := c.infer(p.Target, ictx)
	if targetType.Kind != types.KindStruct {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeMemberAccessOnNonStruct, Severity: diag.Error,
			Message: "field access on non-struct type " + targetType.String(),
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Unit()
	}
	fieldType, ok := targetType.Fields[p.Field]
	if !ok {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeFieldNotFound, Severity: diag.Error,
			Message: "struct `" + targetType.Name + "` has no field `" + p.Field + "`",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Unit()
	}
	if vis, ok := c.fieldVisibility[targetType.Name][p.Field]; ok {
		structSym, found := c.syms.Lookup(ictx.scope, targetType.Name)
		if found && !c.syms.Accessible(vis, structSym.DefiningScope, ictx.scope) {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeVisibilityViolation, Severity: diag.Error,
				Message: "field `" + p.Field + "` of `" + targetType.Name + "` is private",
				Detail:  "FieldAccess",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
	}
	return fieldType
}

func (c *checker) inferTypeMember(n *ast.Node) *types.TypeInfo {
	p := n.Payload.(ast.TypeMemberExprPayload)
	if !c.enumNames[p.TypeName] {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeTypeMemberAccessOnNonEnum, Severity: diag.Error,
			Message: "`" + p.TypeName + "` is not an enum",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Unit()
	}
	sym, ok := c.syms.Lookup(symtab.RootScope, p.TypeName)
	if !ok || sym.Type == nil {
		return &types.TypeInfo{Kind: types.KindEnum, Name: p.TypeName}
	}
	found := false
	for _, v := range sym.Type.Variants {
		if v == p.Member {
			found = true
			break
		}
	}
	if !found {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeInvalidEnumVariant, Severity: diag.Error,
			Message: "enum `" + p.TypeName + "` has no variant `" + p.Member + "`",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
	return sym.Type
}

func (c *checker) inferStructLiteral(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.StructLiteralExprPayload)
	if !c.structNames[p.TypeName] {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnknownType, Severity: diag.Error,
			Message: "`" + p.TypeName + "` is not a struct",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		for _, f := range p.Fields {
			c.infer(f.Value, ictx)
		}
		return types.Unit()
	}
	sym, ok := c.syms.Lookup(ictx.scope, p.TypeName)
	if !ok || sym.Type == nil {
		return &types.TypeInfo{Kind: types.KindStruct, Name: p.TypeName}
	}
	structType := sym.Type

	provided := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		provided[f.Name] = true
		declared, ok := structType.Fields[f.Name]
		if !ok {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeUnknownField, Severity: diag.Error,
				Message: "struct `" + p.TypeName + "` has no field `" + f.Name + "`",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			c.infer(f.Value, ictx)
			continue
		}
		if vis, ok := c.fieldVisibility[p.TypeName][f.Name]; ok && !c.syms.Accessible(vis, sym.DefiningScope, ictx.scope) {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeVisibilityViolation, Severity: diag.Error,
				Message: "field `" + f.Name + "` of `" + p.TypeName + "` is private",
				Detail:  "StructLiteral",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
		c.checkAgainst(f.Value, declared, "StructLiteralField", f.Name, ictx)
	}
	for _, name := range structType.FieldOrder {
		if !provided[name] {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeFieldNotFound, Severity: diag.Error,
				Message: "missing field `" + name + "` in literal for struct `" + p.TypeName + "`",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
	}
	return structType
}

func (c *checker) inferIfExpr(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.IfExprPayload)
	if p.Condition.Valid() {
		c.checkAgainst(p.Condition, types.Bool(), "Condition", "", ictx)
	}
	thenType := c.branchType(p.Then, ictx)
	if !p.Else.Valid() {
		return types.Unit()
	}
	elseType := c.branchType(p.Else, ictx)
	if !thenType.Equal(elseType) {
		en := c.arena.MustFindNode(p.Else)
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeTypeMismatch, Severity: diag.Error,
			Message: "if-branches disagree: " + thenType.String() + " vs " + elseType.String(),
			Detail:  "IfExpression",
			File:    c.fileOf(n.ID), Line: en.Location.StartLine, Column: en.Location.StartColumn,
		})
	}
	return thenType
}

func (c *checker) branchType(id ast.ID, ictx inferCtx) *types.TypeInfo {
	n := c.arena.MustFindNode(id)
	if n.Kind == ast.KindBlockExpr {
		return c.inferBlock(id, ictx)
	}
	return c.infer(id, ictx)
}

func (c *checker) inferCast(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.CastExprPayload)
	srcType := c.infer(p.Value, ictx)
	target := c.resolveCustom(c.astTypeToTypeInfo(p.TargetType, ictx.typeParams))

	switch {
	case srcType.Kind == types.KindNumber && target.Kind == types.KindNumber:
	case srcType.Kind == types.KindNumber && target.Kind == types.KindBool:
	case srcType.Kind == types.KindBool && target.Kind == types.KindNumber:
	default:
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeInvalidCast, Severity: diag.Error,
			Message: "cannot cast " + srcType.String() + " to " + target.String(),
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
	return target
}

// collectGenericBindings walks param (the declared, possibly generic
// shape) alongside arg (the synthesized concrete shape at a call
// site) and records every Generic leaf's binding. Instantiation is
// resolved structurally rather than by unification since the language
// has no higher-rank polymorphism.
func collectGenericBindings(param, arg *types.TypeInfo, bindings map[string]*types.TypeInfo) {
	if param == nil || arg == nil {
		return
	}
	switch param.Kind {
	case types.KindGeneric:
		if _, bound := bindings[param.Name]; !bound {
			bindings[param.Name] = arg
		}
	case types.KindArray:
		if arg.Kind == types.KindArray {
			collectGenericBindings(param.Element, arg.Element, bindings)
		}
	case types.KindFunction:
		if arg.Kind == types.KindFunction {
			for i := range param.Params {
				if i < len(arg.Params) {
					collectGenericBindings(param.Params[i], arg.Params[i], bindings)
				}
			}
			collectGenericBindings(param.ReturnType, arg.ReturnType, bindings)
		}
	case types.KindStruct, types.KindEnum, types.KindSpec, types.KindCustom:
		if arg.Kind == param.Kind && arg.Name == param.Name {
			for i := range param.TypeArgs {
				if i < len(arg.TypeArgs) {
					collectGenericBindings(param.TypeArgs[i], arg.TypeArgs[i], bindings)
				}
			}
		}
	}
}

func (c *checker) inferCall(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.CallExprPayload)
	calleeType := c.infer(p.Callee, ictx)
	if calleeType.Kind != types.KindFunction {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeNotCallable, Severity: diag.Error,
			Message: "value of type " + calleeType.String() + " is not callable",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		for _, a := range p.Args {
			c.infer(a, ictx)
		}
		return types.Unit()
	}
	return c.inferCallLike(n, calleeType, p.Args, "FunctionArgument", ictx)
}

func (c *checker) inferMethodCall(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.MethodCallExprPayload)
	receiverType := c.infer(p.Receiver, ictx)
	if receiverType.Kind != types.KindStruct && receiverType.Kind != types.KindEnum {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeMethodCallOnNonStruct, Severity: diag.Error,
			Message: "method call on non-struct/enum type " + receiverType.String(),
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		for _, a := range p.Args {
			c.infer(a, ictx)
		}
		return types.Unit()
	}
	sym, ok := c.syms.LookupMethod(receiverType.Name, p.Method)
	if !ok {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnknownMethod, Severity: diag.Error,
			Message: "type `" + receiverType.Name + "` has no method `" + p.Method + "`",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		for _, a := range p.Args {
			c.infer(a, ictx)
		}
		return types.Unit()
	}
	if !c.syms.Accessible(sym.Visibility, sym.DefiningScope, ictx.scope) {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeVisibilityViolation, Severity: diag.Error,
			Message: "method `" + p.Method + "` on `" + receiverType.Name + "` is private",
			Detail:  "MethodCall",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
	return c.inferCallLike(n, sym.Type, p.Args, "MethodArgument", ictx)
}

// inferCallLike shares the arity check, per-argument generic-aware
// checking, and return-type instantiation between plain calls and
// method calls.
func (c *checker) inferCallLike(n *ast.Node, fnType *types.TypeInfo, args []ast.ID, variant string, ictx inferCtx) *types.TypeInfo {
	if len(args) != len(fnType.Params) {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeArgumentCountMismatch, Severity: diag.Error,
			Message: "expected " + strconv.Itoa(len(fnType.Params)) + " argument(s), found " + strconv.Itoa(len(args)),
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}

	bindings := make(map[string]*types.TypeInfo)
	n2 := len(args)
	if len(fnType.Params) < n2 {
		n2 = len(fnType.Params)
	}
	for i := 0; i < n2; i++ {
		argType := c.infer(args[i], ictx)
		collectGenericBindings(fnType.Params[i], argType, bindings)
	}
	for i := 0; i < n2; i++ {
		expected := fnType.Params[i].Substitute(bindings)
		c.compareTypes(c.arena.MustFindNode(args[i]), expected, c.nodeTypes[args[i]], variant, strconv.Itoa(i))
	}
	for i := n2; i < len(args); i++ {
		c.infer(args[i], ictx)
	}

	ret := fnType.ReturnType.Substitute(bindings)
	if ret.HasUnresolvedParams() {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnknownType, Severity: diag.Error,
			Message: "cannot infer type parameter(s) of " + ret.String() + " from the arguments at this call",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
	return ret
}

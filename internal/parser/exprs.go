package parser

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
)

// walkExpr dispatches a value-position CST node to the matching
// Expression node kind. Every branch returns a node id
// already linked as a child of the caller via the caller's AddChild
// call, except this function itself does not call AddChild — callers
// own that, since an expression can be reached from many different
// parent shapes (let value, call argument, array element, ...).
func (b *builder) walkExpr(n *sitter.Node) ast.ID {
	switch n.Type() {
	case "integer_literal":
		digits, suffix := splitNumberSuffix(b.text(n))
		lit := b.arena.NewNode(ast.KindNumberLit, b.loc(n), ast.NumberLitPayload{Text: digits, Suffix: suffix})
		return b.wrapLiteral(n, lit)

	case "boolean_literal":
		lit := b.arena.NewNode(ast.KindBoolLit, b.loc(n), ast.BoolLitPayload{Value: b.text(n) == "true"})
		return b.wrapLiteral(n, lit)

	case "string_literal":
		lit := b.arena.NewNode(ast.KindStringLit, b.loc(n), ast.StringLitPayload{Value: unquote(b.text(n))})
		return b.wrapLiteral(n, lit)

	case "unit_expression":
		lit := b.arena.NewNode(ast.KindUnitLit, b.loc(n), ast.UnitLitPayload{})
		return b.wrapLiteral(n, lit)

	case "identifier":
		return b.arena.NewNode(ast.KindIdentifierExpr, b.loc(n), ast.IdentifierExprPayload{Name: b.text(n)})

	case "self":
		return b.arena.NewNode(ast.KindIdentifierExpr, b.loc(n), ast.IdentifierExprPayload{Name: "self"})

	case "binary_expression":
		return b.walkBinary(n)

	case "unary_expression":
		return b.walkUnary(n)

	case "parenthesized_expression":
		if inner := n.NamedChild(0); inner != nil {
			return b.walkExpr(inner)
		}
		return b.arena.NewNode(ast.KindUnitLit, b.loc(n), ast.UnitLitPayload{})

	case "call_expression":
		return b.walkCallOrMethodCall(n)

	case "field_expression":
		return b.walkFieldAccess(n)

	case "index_expression":
		return b.walkIndex(n)

	case "array_expression":
		return b.walkArrayLiteral(n)

	case "struct_expression":
		return b.walkStructLiteral(n)

	case "scoped_identifier":
		return b.walkTypeMember(n)

	case "uzumaki_expression":
		return b.arena.NewNode(ast.KindUzumakiExpr, b.loc(n), ast.UzumakiExprPayload{})

	case "block":
		return b.walkBlock(n)

	case "if_expression":
		return b.walkIfExpr(n)

	case "cast_expression":
		return b.walkCast(n)

	default:
		b.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnsupportedFeature, Severity: diag.Error,
			Message: "unsupported expression syntax " + strconv.Quote(n.Type()),
			File:    b.path, Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column) + 1,
		})
		return b.arena.NewNode(ast.KindUnitLit, b.loc(n), ast.UnitLitPayload{})
	}
}

// wrapLiteral wraps a Literal node in a LiteralExpr, since the arena
// distinguishes the Literal category from the Expression
// node that carries it in value position.
func (b *builder) wrapLiteral(n *sitter.Node, lit ast.ID) ast.ID {
	id := b.arena.NewNode(ast.KindLiteralExpr, b.loc(n), ast.LiteralExprPayload{Literal: lit})
	b.arena.AddChild(id, lit)
	return id
}

// splitNumberSuffix separates an explicit numeric-type suffix
// (`7i64` -> "7", "i64") from the digits, since the grammar exposes
// the whole literal as one token.
func splitNumberSuffix(text string) (string, string) {
	for i := 0; i < len(text); i++ {
		if text[i] == 'i' || text[i] == 'u' {
			return text[:i], text[i:]
		}
	}
	return text, ""
}

func unquote(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func (b *builder) walkBinary(n *sitter.Node) ast.ID {
	leftNode := b.field(n, "left")
	rightNode := b.field(n, "right")
	opNode := n.ChildByFieldName("operator")

	id := b.arena.NewNode(ast.KindBinaryExpr, b.loc(n), nil)
	var left, right ast.ID
	if leftNode != nil {
		left = b.walkExpr(leftNode)
		b.arena.AddChild(id, left)
	}
	if rightNode != nil {
		right = b.walkExpr(rightNode)
		b.arena.AddChild(id, right)
	}
	op := ""
	if opNode != nil {
		op = b.text(opNode)
	}
	b.setPayload(id, ast.BinaryExprPayload{Operator: op, Left: left, Right: right})
	return id
}

func (b *builder) walkUnary(n *sitter.Node) ast.ID {
	operandNode := b.field(n, "operand")
	opNode := n.ChildByFieldName("operator")

	id := b.arena.NewNode(ast.KindUnaryExpr, b.loc(n), nil)
	var operand ast.ID
	if operandNode != nil {
		operand = b.walkExpr(operandNode)
		b.arena.AddChild(id, operand)
	}
	op := ""
	if opNode != nil {
		op = b.text(opNode)
	} else if n.ChildCount() > 0 {
		op = b.text(n.Child(0))
	}
	b.setPayload(id, ast.UnaryExprPayload{Operator: op, Operand: operand})
	return id
}

// walkCallOrMethodCall distinguishes `f(args)` from `r.m(args)` by
// whether the callee position is a field_expression: a method call
// carries a receiver and a method name, a plain call only a callee
// expression.
func (b *builder) walkCallOrMethodCall(n *sitter.Node) ast.ID {
	calleeNode := b.field(n, "function")
	argsNode := b.field(n, "arguments")

	if calleeNode != nil && calleeNode.Type() == "field_expression" {
		recvNode := b.field(calleeNode, "value")
		methodNode := b.field(calleeNode, "field")
		id := b.arena.NewNode(ast.KindMethodCallExpr, b.loc(n), nil)
		var recv ast.ID
		if recvNode != nil {
			recv = b.walkExpr(recvNode)
			b.arena.AddChild(id, recv)
		}
		method := ""
		if methodNode != nil {
			method = b.text(methodNode)
		}
		args := b.walkArgList(id, argsNode)
		b.setPayload(id, ast.MethodCallExprPayload{Receiver: recv, Method: method, Args: args})
		return id
	}

	id := b.arena.NewNode(ast.KindCallExpr, b.loc(n), nil)
	var callee ast.ID
	if calleeNode != nil {
		callee = b.walkExpr(calleeNode)
		b.arena.AddChild(id, callee)
	}
	args := b.walkArgList(id, argsNode)
	b.setPayload(id, ast.CallExprPayload{Callee: callee, Args: args})
	return id
}

func (b *builder) walkArgList(parent ast.ID, argsNode *sitter.Node) []ast.ID {
	var args []ast.ID
	if argsNode == nil {
		return args
	}
	for _, a := range namedChildren(argsNode) {
		argID := b.walkExpr(a)
		b.arena.AddChild(parent, argID)
		args = append(args, argID)
	}
	return args
}

func (b *builder) walkFieldAccess(n *sitter.Node) ast.ID {
	targetNode := b.field(n, "value")
	fieldNode := b.field(n, "field")

	id := b.arena.NewNode(ast.KindFieldAccessExpr, b.loc(n), nil)
	var target ast.ID
	if targetNode != nil {
		target = b.walkExpr(targetNode)
		b.arena.AddChild(id, target)
	}
	field := ""
	if fieldNode != nil {
		field = b.text(fieldNode)
	}
	b.setPayload(id, ast.FieldAccessExprPayload{Target: target, Field: field})
	return id
}

func (b *builder) walkIndex(n *sitter.Node) ast.ID {
	targetNode := b.field(n, "value")
	indexNode := b.field(n, "index")

	id := b.arena.NewNode(ast.KindIndexExpr, b.loc(n), nil)
	var target, index ast.ID
	if targetNode != nil {
		target = b.walkExpr(targetNode)
		b.arena.AddChild(id, target)
	}
	if indexNode != nil {
		index = b.walkExpr(indexNode)
		b.arena.AddChild(id, index)
	}
	b.setPayload(id, ast.IndexExprPayload{Target: target, Index: index})
	return id
}

func (b *builder) walkArrayLiteral(n *sitter.Node) ast.ID {
	id := b.arena.NewNode(ast.KindArrayLiteralExpr, b.loc(n), nil)
	var elems []ast.ID
	for _, c := range namedChildren(n) {
		elemID := b.walkExpr(c)
		b.arena.AddChild(id, elemID)
		elems = append(elems, elemID)
	}
	b.setPayload(id, ast.ArrayLiteralExprPayload{Elements: elems})
	return id
}

func (b *builder) walkStructLiteral(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "name")
	bodyNode := b.field(n, "body")

	id := b.arena.NewNode(ast.KindStructLiteralExpr, b.loc(n), nil)
	name := ""
	if nameNode != nil {
		name = b.text(nameNode)
	}
	var fields []ast.StructLiteralField
	if bodyNode != nil {
		for _, f := range namedChildren(bodyNode) {
			if f.Type() != "field_initializer" {
				continue
			}
			fNameNode := b.field(f, "name")
			fValueNode := b.field(f, "value")
			fname := ""
			if fNameNode != nil {
				fname = b.text(fNameNode)
			}
			var fval ast.ID
			if fValueNode != nil {
				fval = b.walkExpr(fValueNode)
				b.arena.AddChild(id, fval)
			}
			fields = append(fields, ast.StructLiteralField{Name: fname, Value: fval})
		}
	}
	b.setPayload(id, ast.StructLiteralExprPayload{TypeName: name, Fields: fields})
	return id
}

// walkTypeMember handles `E::V` enum-variant access, distinguished
// from a plain import-style scoped path by appearing in value
// position. E must be a registered enum and V one of its variants;
// the checker enforces both.
func (b *builder) walkTypeMember(n *sitter.Node) ast.ID {
	pathNode := b.field(n, "path")
	nameNode := b.field(n, "name")

	typeName := ""
	if pathNode != nil {
		typeName = b.text(pathNode)
	}
	member := ""
	if nameNode != nil {
		member = b.text(nameNode)
	}
	return b.arena.NewNode(ast.KindTypeMemberExpr, b.loc(n), ast.TypeMemberExprPayload{TypeName: typeName, Member: member})
}

func (b *builder) walkIfExpr(n *sitter.Node) ast.ID {
	condNode := b.field(n, "condition")
	thenNode := b.field(n, "consequence")
	altNode := n.ChildByFieldName("alternative")

	id := b.arena.NewNode(ast.KindIfExpr, b.loc(n), nil)
	var cond, thenID, elseID ast.ID
	if condNode != nil {
		cond = b.walkExpr(condNode)
		b.arena.AddChild(id, cond)
	}
	if thenNode != nil {
		thenID = b.walkBlock(thenNode)
		b.arena.AddChild(id, thenID)
	}
	if altNode != nil {
		target := altNode
		if altNode.Type() == "else_clause" {
			if inner := altNode.NamedChild(0); inner != nil {
				target = inner
			}
		}
		elseID = b.walkExpr(target)
		b.arena.AddChild(id, elseID)
	}
	b.setPayload(id, ast.IfExprPayload{Condition: cond, Then: thenID, Else: elseID})
	return id
}

func (b *builder) walkCast(n *sitter.Node) ast.ID {
	valueNode := b.field(n, "value")
	typeNode := b.field(n, "type")

	id := b.arena.NewNode(ast.KindCastExpr, b.loc(n), nil)
	var value, typeID ast.ID
	if valueNode != nil {
		value = b.walkExpr(valueNode)
		b.arena.AddChild(id, value)
	}
	if typeNode != nil {
		typeID = b.walkType(typeNode)
		b.arena.AddChild(id, typeID)
	}
	b.setPayload(id, ast.CastExprPayload{Value: value, TargetType: typeID})
	return id
}

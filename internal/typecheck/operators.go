package typecheck

import (
	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/types"
)

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true, "**": true}
var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}
var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}

// inferBinary implements the binary-operator typing table:
// arithmetic and bitwise operators require both sides
// to be the same number kind and produce that kind; comparisons
// require the same number kind and produce bool; equality accepts
// any matching pair and produces bool; logical operators require
// bool on both sides and produce bool. No implicit widening between
// number kinds (types.TypeInfo.Equal has no subtyping).
func (c *checker) inferBinary(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.BinaryExprPayload)
	left := c.infer(p.Left, ictx)
	right := c.infer(p.Right, ictx)

	switch {
	case arithmeticOps[p.Operator]:
		if left.Kind != types.KindNumber || !left.Equal(right) {
			c.binaryMismatch(n, p.Operator, left, right)
			return left
		}
		if p.Operator == "/" || p.Operator == "%" {
			if isZeroLiteral(c.arena, p.Right) {
				c.errs.Add(diag.Diagnostic{
					Code: diag.CodeDivisionByZero, Severity: diag.Error,
					Message: "division by the constant zero",
					File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
				})
			}
		}
		return left

	case bitwiseOps[p.Operator]:
		if left.Kind != types.KindNumber || !left.Equal(right) {
			c.binaryMismatch(n, p.Operator, left, right)
			return left
		}
		return left

	case comparisonOps[p.Operator]:
		if left.Kind != types.KindNumber || !left.Equal(right) {
			c.binaryMismatch(n, p.Operator, left, right)
		}
		return types.Bool()

	case equalityOps[p.Operator]:
		if !left.Equal(right) {
			c.binaryMismatch(n, p.Operator, left, right)
		}
		return types.Bool()

	case logicalOps[p.Operator]:
		if left.Kind != types.KindBool {
			c.binaryMismatch(n, p.Operator, left, right)
		}
		if right.Kind != types.KindBool {
			c.binaryMismatch(n, p.Operator, left, right)
		}
		return types.Bool()

	default:
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeInvalidOperator, Severity: diag.Error,
			Message: "unknown binary operator `" + p.Operator + "`",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return types.Unit()
	}
}

func (c *checker) binaryMismatch(n *ast.Node, op string, left, right *types.TypeInfo) {
	c.errs.Add(diag.Diagnostic{
		Code: diag.CodeBinaryOperatorTypeMismatch, Severity: diag.Error,
		Message: "operator `" + op + "` is not defined for " + left.String() + " and " + right.String(),
		File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
	})
}

func isZeroLiteral(a *arena.Arena, id ast.ID) bool {
	n := a.MustFindNode(id)
	if n.Kind != ast.KindLiteralExpr {
		return false
	}
	lp := n.Payload.(ast.LiteralExprPayload)
	ln := a.MustFindNode(lp.Literal)
	if ln.Kind != ast.KindNumberLit {
		return false
	}
	np := ln.Payload.(ast.NumberLitPayload)
	return np.Text == "0"
}

// inferUnary implements the unary operators: `-` requires a signed
// number and preserves its kind, `!` requires bool and produces bool,
// `~` requires any number and preserves its kind.
func (c *checker) inferUnary(n *ast.Node, ictx inferCtx) *types.TypeInfo {
	p := n.Payload.(ast.UnaryExprPayload)
	operand := c.infer(p.Operand, ictx)

	switch p.Operator {
	case "-":
		if operand.Kind != types.KindNumber || !operand.Number.IsSigned() {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeUnsupportedUnaryOperator, Severity: diag.Error,
				Message: "unary `-` requires a signed number, found " + operand.String(),
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
		return operand
	case "~":
		if operand.Kind != types.KindNumber {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeUnsupportedUnaryOperator, Severity: diag.Error,
				Message: "unary `~` requires a number, found " + operand.String(),
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
		return operand
	case "!":
		if operand.Kind != types.KindBool {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeUnsupportedUnaryOperator, Severity: diag.Error,
				Message: "unary `!` requires bool, found " + operand.String(),
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
		}
		return types.Bool()
	default:
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnsupportedUnaryOperator, Severity: diag.Error,
			Message: "unknown unary operator `" + p.Operator + "`",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return operand
	}
}

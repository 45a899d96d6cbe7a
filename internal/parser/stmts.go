package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/veyra/internal/ast"
)

// walkBlock builds a BlockExpr node from a `block` CST node: every
// named child but a possible final bare expression becomes a
// Statement node; a final child with no trailing `;` that is not
// itself one of the unambiguous statement shapes becomes the block's
// tail expression; `{ … }` used as an expression carries its value
// through Tail.
func (b *builder) walkBlock(n *sitter.Node) ast.ID {
	id := b.arena.NewNode(ast.KindBlockExpr, b.loc(n), nil)

	children := namedChildren(n)
	var stmts []ast.ID
	var tail ast.ID

	for i, c := range children {
		isLast := i == len(children)-1
		if isLast && !isStatementShaped(c.Type()) {
			tail = b.walkExpr(c)
			b.arena.AddChild(id, tail)
			continue
		}
		stmtID := b.walkStmt(c)
		b.arena.AddChild(id, stmtID)
		stmts = append(stmts, stmtID)
	}

	b.setPayload(id, ast.BlockExprPayload{Statements: stmts, Tail: tail})
	return id
}

// isStatementShaped reports whether a block-position CST node type is
// unambiguously a statement (never a trailing value). `if_expression`
// is deliberately excluded: in final position it is the block's tail
// value, everywhere else walkBlock routes it through walkStmt.
func isStatementShaped(nodeType string) bool {
	switch nodeType {
	case "let_declaration", "assignment_expression", "return_expression",
		"while_expression", "loop_expression", "break_expression",
		"expression_statement",
		"forall_block", "exists_block", "assume_block", "unique_block":
		return true
	default:
		return false
	}
}

func (b *builder) walkStmt(n *sitter.Node) ast.ID {
	switch n.Type() {
	case "let_declaration":
		return b.walkLet(n)
	case "assignment_expression":
		return b.walkAssign(n)
	case "return_expression":
		return b.walkReturn(n)
	case "if_expression":
		return b.walkIfStmt(n)
	case "while_expression":
		return b.walkWhile(n)
	case "loop_expression":
		return b.walkLoop(n)
	case "break_expression":
		return b.arena.NewNode(ast.KindBreakStmt, b.loc(n), ast.BreakStmtPayload{})
	case "expression_statement":
		inner := n.NamedChild(0)
		// A grammar may wrap statement-shaped constructs (`return e;`,
		// `x = e;`, `while ...`) in an expression_statement; unwrap
		// those to the dedicated statement walkers.
		if inner != nil && isStatementShaped(inner.Type()) {
			return b.walkStmt(inner)
		}
		id := b.arena.NewNode(ast.KindExprStmt, b.loc(n), nil)
		var exprID ast.ID
		if inner != nil {
			exprID = b.walkExpr(inner)
			b.arena.AddChild(id, exprID)
		}
		b.setPayload(id, ast.ExprStmtPayload{Expr: exprID})
		return id
	case "forall_block", "exists_block", "assume_block", "unique_block":
		return b.walkNondetBlock(n)
	default:
		// Fallback: treat as a bare expression statement so an
		// unrecognized-but-expression-shaped node still type-checks
		// rather than dropping the statement silently.
		id := b.arena.NewNode(ast.KindExprStmt, b.loc(n), nil)
		exprID := b.walkExpr(n)
		b.arena.AddChild(id, exprID)
		b.setPayload(id, ast.ExprStmtPayload{Expr: exprID})
		return id
	}
}

func (b *builder) walkLet(n *sitter.Node) ast.ID {
	nameNode := b.field(n, "pattern")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("name")
	}
	typeNode := n.ChildByFieldName("type")
	valueNode := b.field(n, "value")

	id := b.arena.NewNode(ast.KindLetStmt, b.loc(n), nil)
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
	b.setPayload(id, ast.LetStmtPayload{Name: name, DeclaredType: typeID, Value: valueID})
	return id
}

func (b *builder) walkAssign(n *sitter.Node) ast.ID {
	leftNode := b.field(n, "left")
	rightNode := b.field(n, "right")

	id := b.arena.NewNode(ast.KindAssignStmt, b.loc(n), nil)
	var target, value ast.ID
	if leftNode != nil {
		target = b.walkExpr(leftNode)
		b.arena.AddChild(id, target)
	}
	if rightNode != nil {
		value = b.walkExpr(rightNode)
		b.arena.AddChild(id, value)
	}
	b.setPayload(id, ast.AssignStmtPayload{Target: target, Value: value})
	return id
}

func (b *builder) walkReturn(n *sitter.Node) ast.ID {
	id := b.arena.NewNode(ast.KindReturnStmt, b.loc(n), nil)
	var value ast.ID
	if inner := n.NamedChild(0); inner != nil {
		value = b.walkExpr(inner)
		b.arena.AddChild(id, value)
	}
	b.setPayload(id, ast.ReturnStmtPayload{Value: value})
	return id
}

func (b *builder) walkIfStmt(n *sitter.Node) ast.ID {
	condNode := b.field(n, "condition")
	thenNode := b.field(n, "consequence")
	altNode := n.ChildByFieldName("alternative")

	id := b.arena.NewNode(ast.KindIfStmt, b.loc(n), nil)
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
		elseID = b.walkElseClause(altNode)
		b.arena.AddChild(id, elseID)
	}
	b.setPayload(id, ast.IfStmtPayload{Condition: cond, Then: thenID, Else: elseID})
	return id
}

// walkElseClause handles both `else { ... }` (a block) and
// `else if ... { ... }` (a nested if_expression) in an else_clause
// wrapper, matching the grammar contract documented in cst.go.
func (b *builder) walkElseClause(n *sitter.Node) ast.ID {
	target := n
	if n.Type() == "else_clause" {
		if inner := n.NamedChild(0); inner != nil {
			target = inner
		}
	}
	switch target.Type() {
	case "block":
		return b.walkBlock(target)
	case "if_expression":
		return b.walkIfStmt(target)
	default:
		return b.walkExpr(target)
	}
}

func (b *builder) walkWhile(n *sitter.Node) ast.ID {
	condNode := b.field(n, "condition")
	bodyNode := b.field(n, "body")

	id := b.arena.NewNode(ast.KindWhileStmt, b.loc(n), nil)
	var cond, body ast.ID
	if condNode != nil {
		cond = b.walkExpr(condNode)
		b.arena.AddChild(id, cond)
	}
	if bodyNode != nil {
		body = b.walkBlock(bodyNode)
		b.arena.AddChild(id, body)
	}
	b.setPayload(id, ast.WhileStmtPayload{Condition: cond, Body: body})
	return id
}

func (b *builder) walkLoop(n *sitter.Node) ast.ID {
	bodyNode := b.field(n, "body")

	id := b.arena.NewNode(ast.KindLoopStmt, b.loc(n), nil)
	var body ast.ID
	if bodyNode != nil {
		body = b.walkBlock(bodyNode)
		b.arena.AddChild(id, body)
	}
	b.setPayload(id, ast.LoopStmtPayload{Body: body})
	return id
}

var nondetKind = map[string]ast.Kind{
	"forall_block": ast.KindForallBlock,
	"exists_block": ast.KindExistsBlock,
	"assume_block": ast.KindAssumeBlock,
	"unique_block": ast.KindUniqueBlock,
}

// walkNondetBlock builds a forall/exists/assume/unique block:
// scope-introducing, value-less, so it is always reached through
// walkStmt, never walkExpr.
func (b *builder) walkNondetBlock(n *sitter.Node) ast.ID {
	kind := nondetKind[n.Type()]
	bodyNode := n.ChildByFieldName("body")

	id := b.arena.NewNode(kind, b.loc(n), nil)
	var stmts []ast.ID
	if bodyNode != nil {
		for _, c := range namedChildren(bodyNode) {
			stmtID := b.walkStmt(c)
			b.arena.AddChild(id, stmtID)
			stmts = append(stmts, stmtID)
		}
	}
	b.setPayload(id, ast.BlockTypePayload{Statements: stmts})
	return id
}

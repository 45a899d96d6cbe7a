package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/source"
	"github.com/oxhq/veyra/internal/types"
)

// Fixtures are hand-built arenas rather than parser output: there is
// no real tree-sitter grammar binary available to this build, so every
// scenario below constructs exactly the node shape the parser would
// have produced for the equivalent source text (quoted in each test's
// comment) and feeds it straight to the checker.

func loc(line, col int) source.Location {
	return source.Location{StartLine: line, StartColumn: col, EndLine: line, EndColumn: col + 1}
}

// newI32TypeNode adds a SimpleType(i32) node as a child-less helper
// (type nodes are referenced by id, not parented under their owner).
func newI32TypeNode(a *arena.Arena) ast.ID {
	return a.NewNode(ast.KindSimpleType, loc(1, 1), ast.SimpleTypePayload{Kind: ast.SimpleI32})
}

// TestCheck_S1_TrivialParseAndCheck covers `fn main() -> i32 { return 42; }`.
func TestCheck_S1_TrivialParseAndCheck(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "s1.vey"})

	retType := newI32TypeNode(a)
	lit := a.NewNode(ast.KindNumberLit, loc(1, 25), ast.NumberLitPayload{Text: "42"})
	litExpr := a.NewNode(ast.KindLiteralExpr, loc(1, 25), ast.LiteralExprPayload{Literal: lit})
	ret := a.NewNode(ast.KindReturnStmt, loc(1, 18), ast.ReturnStmtPayload{Value: litExpr})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 16), ast.BlockExprPayload{Statements: []ast.ID{ret}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{
		Name: "main", Visibility: ast.Private, ReturnType: retType, Body: body,
	})
	a.AddChild(root, fn)

	complete, err := New(a).Check()
	require.NoError(t, err)

	ctx := complete.Context()
	fns := a.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "main", fns[0].Payload.(ast.FunctionDefPayload).Name)

	litType := ctx.TypeOf(litExpr)
	require.NotNil(t, litType)
	assert.Equal(t, types.KindNumber, litType.Kind)
	assert.Equal(t, types.I32, litType.Number)

	sym, ok := ctx.Symbols.Lookup(0, "main")
	require.True(t, ok)
	require.Equal(t, types.KindFunction, sym.Type.Kind)
	assert.Equal(t, types.I32, sym.Type.ReturnType.Number)
}

// TestCheck_S2_ReturnTypeMismatch covers `fn f() -> i32 { return true; }`.
func TestCheck_S2_ReturnTypeMismatch(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "s2.vey"})

	retType := newI32TypeNode(a)
	boolExpr := a.NewNode(ast.KindLiteralExpr, loc(1, 25), ast.LiteralExprPayload{
		Literal: a.NewNode(ast.KindBoolLit, loc(1, 25), ast.BoolLitPayload{Value: true}),
	})
	ret := a.NewNode(ast.KindReturnStmt, loc(1, 18), ast.ReturnStmtPayload{Value: boolExpr})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 16), ast.BlockExprPayload{Statements: []ast.ID{ret}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{
		Name: "f", ReturnType: retType, Body: body,
	})
	a.AddChild(root, fn)

	complete, err := New(a).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeTypeMismatch, ds[0].Code)
	assert.Equal(t, "Return", ds[0].Detail)
	assert.Contains(t, ds[0].Message, "i32")
	assert.Contains(t, ds[0].Message, "bool")
}

// structPFixture builds `struct P { x: i32, y: i32 }` (private fields,
// the language default) as a child of container, returning the
// StructDef id.
func structPFixture(a *arena.Arena, container ast.ID, pub ast.Visibility) ast.ID {
	xField := a.NewNode(ast.KindField, loc(2, 5), ast.FieldPayload{Name: "x", Type: newI32TypeNode(a)})
	yField := a.NewNode(ast.KindField, loc(2, 15), ast.FieldPayload{Name: "y", Type: newI32TypeNode(a)})
	structDef := a.NewNode(ast.KindStructDef, loc(2, 1), ast.StructDefPayload{
		Name: "P", Visibility: pub, Fields: []ast.ID{xField, yField},
	})
	a.AddChild(container, structDef)
	return structDef
}

// TestCheck_S3_PrivateFieldAccess_OutsideDefiningScope covers:
//
//	module m { pub struct P { x: i32, y: i32 } }
//	use m::P;
//	pub fn leak(p: P) -> i32 { return p.x; }
//
// leak lives outside m, so even though `use m::P` makes the type name
// resolvable, P's private field x is not accessible from leak's scope.
func TestCheck_S3_PrivateFieldAccess_OutsideDefiningScope(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "s3a.vey"})

	module := a.NewNode(ast.KindModuleDef, loc(1, 1), ast.ModuleDefPayload{Name: "m", Visibility: ast.Public})
	a.AddChild(root, module)
	structPFixture(a, module, ast.Public)

	use := a.NewNode(ast.KindUseDirective, loc(3, 1), ast.UseDirectivePayload{Path: []string{"m", "P"}})
	a.AddChild(root, use)

	paramType := a.NewNode(ast.KindNamedType, loc(4, 15), ast.NamedTypePayload{Name: "P"})
	param := a.NewNode(ast.KindArgument, loc(4, 12), ast.ArgumentPayload{Name: "p", Type: paramType})
	target := a.NewNode(ast.KindIdentifierExpr, loc(4, 38), ast.IdentifierExprPayload{Name: "p"})
	targetExpr := a.NewNode(ast.KindFieldAccessExpr, loc(4, 38), ast.FieldAccessExprPayload{Target: target, Field: "x"})
	ret := a.NewNode(ast.KindReturnStmt, loc(4, 31), ast.ReturnStmtPayload{Value: targetExpr})
	body := a.NewNode(ast.KindBlockExpr, loc(4, 29), ast.BlockExprPayload{Statements: []ast.ID{ret}})
	leak := a.NewNode(ast.KindFunctionDef, loc(4, 1), ast.FunctionDefPayload{
		Name: "leak", Visibility: ast.Public, Params: []ast.ID{param}, ReturnType: newI32TypeNode(a), Body: body,
	})
	a.AddChild(root, leak)

	complete, err := New(a).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	var violations []diag.Diagnostic
	for _, d := range ds {
		if d.Code == diag.CodeVisibilityViolation {
			violations = append(violations, d)
		}
	}
	require.Len(t, violations, 1)
	assert.Equal(t, "FieldAccess", violations[0].Detail)
	assert.Contains(t, violations[0].Message, "x")
	assert.Contains(t, violations[0].Message, "P")
}

// TestCheck_S3_PrivateFieldAccess_InsideDefiningScope covers:
//
//	module m {
//	    struct P { x: i32, y: i32 }
//	    fn peek(p: P) -> i32 { return p.x; }
//	}
//
// peek is declared inside m itself, so its scope descends directly
// from P's defining scope and the private field is accessible.
func TestCheck_S3_PrivateFieldAccess_InsideDefiningScope(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "s3b.vey"})

	module := a.NewNode(ast.KindModuleDef, loc(1, 1), ast.ModuleDefPayload{Name: "m", Visibility: ast.Public})
	a.AddChild(root, module)
	structPFixture(a, module, ast.Private)

	paramType := a.NewNode(ast.KindNamedType, loc(3, 15), ast.NamedTypePayload{Name: "P"})
	param := a.NewNode(ast.KindArgument, loc(3, 12), ast.ArgumentPayload{Name: "p", Type: paramType})
	target := a.NewNode(ast.KindIdentifierExpr, loc(3, 38), ast.IdentifierExprPayload{Name: "p"})
	targetExpr := a.NewNode(ast.KindFieldAccessExpr, loc(3, 38), ast.FieldAccessExprPayload{Target: target, Field: "x"})
	ret := a.NewNode(ast.KindReturnStmt, loc(3, 31), ast.ReturnStmtPayload{Value: targetExpr})
	body := a.NewNode(ast.KindBlockExpr, loc(3, 29), ast.BlockExprPayload{Statements: []ast.ID{ret}})
	peek := a.NewNode(ast.KindFunctionDef, loc(3, 1), ast.FunctionDefPayload{
		Name: "peek", Params: []ast.ID{param}, ReturnType: newI32TypeNode(a), Body: body,
	})
	a.AddChild(module, peek)

	complete, err := New(a).Check()
	require.NoError(t, err)
	assert.Empty(t, complete.Diagnostics())
}

// TestCheck_S4_GenericInstantiation covers:
//
//	fn id<T>(x: T) -> T { return x; }
//	fn use_it() -> i32 { return id(7); }
func TestCheck_S4_GenericInstantiation(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "s4.vey"})

	tParamType := a.NewNode(ast.KindNamedType, loc(1, 12), ast.NamedTypePayload{Name: "T"})
	idParam := a.NewNode(ast.KindArgument, loc(1, 10), ast.ArgumentPayload{Name: "x", Type: tParamType})
	idRetType := a.NewNode(ast.KindNamedType, loc(1, 19), ast.NamedTypePayload{Name: "T"})
	idIdentifier := a.NewNode(ast.KindIdentifierExpr, loc(1, 33), ast.IdentifierExprPayload{Name: "x"})
	idRet := a.NewNode(ast.KindReturnStmt, loc(1, 26), ast.ReturnStmtPayload{Value: idIdentifier})
	idBody := a.NewNode(ast.KindBlockExpr, loc(1, 24), ast.BlockExprPayload{Statements: []ast.ID{idRet}})
	idFn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{
		Name: "id", TypeParams: []string{"T"}, Params: []ast.ID{idParam}, ReturnType: idRetType, Body: idBody,
	})
	a.AddChild(root, idFn)

	callee := a.NewNode(ast.KindIdentifierExpr, loc(2, 26), ast.IdentifierExprPayload{Name: "id"})
	sevenLit := a.NewNode(ast.KindNumberLit, loc(2, 29), ast.NumberLitPayload{Text: "7"})
	sevenExpr := a.NewNode(ast.KindLiteralExpr, loc(2, 29), ast.LiteralExprPayload{Literal: sevenLit})
	call := a.NewNode(ast.KindCallExpr, loc(2, 26), ast.CallExprPayload{Callee: callee, Args: []ast.ID{sevenExpr}})
	useRet := a.NewNode(ast.KindReturnStmt, loc(2, 19), ast.ReturnStmtPayload{Value: call})
	useBody := a.NewNode(ast.KindBlockExpr, loc(2, 17), ast.BlockExprPayload{Statements: []ast.ID{useRet}})
	useFn := a.NewNode(ast.KindFunctionDef, loc(2, 1), ast.FunctionDefPayload{
		Name: "use_it", ReturnType: newI32TypeNode(a), Body: useBody,
	})
	a.AddChild(root, useFn)

	complete, err := New(a).Check()
	require.NoError(t, err)

	callType := complete.Context().TypeOf(call)
	require.NotNil(t, callType)
	assert.Equal(t, types.KindNumber, callType.Kind)
	assert.Equal(t, types.I32, callType.Number)
	assert.NotEqual(t, types.KindGeneric, callType.Kind)
}

// unaryFixture builds `fn f(x: u32) -> u32 { return <op>x; }`.
func unaryFixture(a *arena.Arena, root ast.ID, op string) ast.ID {
	paramType := a.NewNode(ast.KindSimpleType, loc(1, 9), ast.SimpleTypePayload{Kind: ast.SimpleU32})
	param := a.NewNode(ast.KindArgument, loc(1, 6), ast.ArgumentPayload{Name: "x", Type: paramType})
	operand := a.NewNode(ast.KindIdentifierExpr, loc(1, 31), ast.IdentifierExprPayload{Name: "x"})
	unary := a.NewNode(ast.KindUnaryExpr, loc(1, 30), ast.UnaryExprPayload{Operator: op, Operand: operand})
	ret := a.NewNode(ast.KindReturnStmt, loc(1, 23), ast.ReturnStmtPayload{Value: unary})
	retType := a.NewNode(ast.KindSimpleType, loc(1, 17), ast.SimpleTypePayload{Kind: ast.SimpleU32})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 21), ast.BlockExprPayload{Statements: []ast.ID{ret}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{
		Name: "f", Params: []ast.ID{param}, ReturnType: retType, Body: body,
	})
	a.AddChild(root, fn)
	return unary
}

// TestCheck_UnaryComplementOnUnsigned covers `fn f(x: u32) -> u32 { return ~x; }`:
// `~` accepts any number kind and preserves it.
func TestCheck_UnaryComplementOnUnsigned(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "unary_a.vey"})
	unary := unaryFixture(a, root, "~")

	complete, err := New(a).Check()
	require.NoError(t, err)

	ty := complete.Context().TypeOf(unary)
	require.NotNil(t, ty)
	assert.Equal(t, types.U32, ty.Number)
}

// TestCheck_UnaryNegationRequiresSigned covers `fn f(x: u32) -> u32 { return -x; }`:
// unary `-` is only defined for signed number kinds.
func TestCheck_UnaryNegationRequiresSigned(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "unary_b.vey"})
	unaryFixture(a, root, "-")

	complete, err := New(a).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeUnsupportedUnaryOperator, ds[0].Code)
	assert.Contains(t, ds[0].Message, "signed")
}

// TestCheck_SelfOutsideMethod covers `fn f() -> i32 { return self; }`.
func TestCheck_SelfOutsideMethod(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "self.vey"})

	selfExpr := a.NewNode(ast.KindIdentifierExpr, loc(1, 24), ast.IdentifierExprPayload{Name: "self"})
	ret := a.NewNode(ast.KindReturnStmt, loc(1, 17), ast.ReturnStmtPayload{Value: selfExpr})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 15), ast.BlockExprPayload{Statements: []ast.ID{ret}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{
		Name: "f", ReturnType: newI32TypeNode(a), Body: body,
	})
	a.AddChild(root, fn)

	complete, err := New(a).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	var found bool
	for _, d := range ds {
		if d.Code == diag.CodeInvalidSelfReference {
			found = true
		}
	}
	assert.True(t, found)
}

// TestCheck_ArraySizeMismatch covers `fn f() { let x: [i32; 3] = [1, 2]; }`:
// same element type, wrong length, reported as ArraySizeMismatch
// rather than a generic type mismatch.
func TestCheck_ArraySizeMismatch(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "arr.vey"})

	elemType := newI32TypeNode(a)
	arrType := a.NewNode(ast.KindArrayType, loc(1, 17), ast.ArrayTypePayload{Element: elemType, Size: 3})

	one := a.NewNode(ast.KindLiteralExpr, loc(1, 29), ast.LiteralExprPayload{
		Literal: a.NewNode(ast.KindNumberLit, loc(1, 29), ast.NumberLitPayload{Text: "1"}),
	})
	two := a.NewNode(ast.KindLiteralExpr, loc(1, 32), ast.LiteralExprPayload{
		Literal: a.NewNode(ast.KindNumberLit, loc(1, 32), ast.NumberLitPayload{Text: "2"}),
	})
	arrLit := a.NewNode(ast.KindArrayLiteralExpr, loc(1, 28), ast.ArrayLiteralExprPayload{Elements: []ast.ID{one, two}})
	let := a.NewNode(ast.KindLetStmt, loc(1, 10), ast.LetStmtPayload{Name: "x", DeclaredType: arrType, Value: arrLit})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 8), ast.BlockExprPayload{Statements: []ast.ID{let}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{Name: "f", Body: body})
	a.AddChild(root, fn)

	complete, err := New(a).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeArraySizeMismatch, ds[0].Code)
}

// TestCheck_UzumakiOutsideNondetBlock covers
// `fn f() { let x: i32 = @; }`: `@` is only legal
// inside forall/exists/assume/unique blocks.
func TestCheck_UzumakiOutsideNondetBlock(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "uzu_a.vey"})

	uzu := a.NewNode(ast.KindUzumakiExpr, loc(1, 30), ast.UzumakiExprPayload{})
	let := a.NewNode(ast.KindLetStmt, loc(1, 17), ast.LetStmtPayload{Name: "x", DeclaredType: newI32TypeNode(a), Value: uzu})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 15), ast.BlockExprPayload{Statements: []ast.ID{let}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{Name: "f", Body: body})
	a.AddChild(root, fn)

	complete, err := New(a).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	require.NotEmpty(t, ds)
	assert.Equal(t, diag.CodeInvalidOperator, ds[0].Code)
}

// TestCheck_UzumakiInsideForallBlock covers
// `fn f() { forall { let x: i32 = @; } }`: inside a nondeterministic
// block, `@` takes the annotated expected type.
func TestCheck_UzumakiInsideForallBlock(t *testing.T) {
	a := arena.New()
	root := a.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "uzu_b.vey"})

	uzu := a.NewNode(ast.KindUzumakiExpr, loc(1, 40), ast.UzumakiExprPayload{})
	let := a.NewNode(ast.KindLetStmt, loc(1, 27), ast.LetStmtPayload{Name: "x", DeclaredType: newI32TypeNode(a), Value: uzu})
	forall := a.NewNode(ast.KindForallBlock, loc(1, 10), ast.BlockTypePayload{Statements: []ast.ID{let}})
	body := a.NewNode(ast.KindBlockExpr, loc(1, 8), ast.BlockExprPayload{Statements: []ast.ID{forall}})
	fn := a.NewNode(ast.KindFunctionDef, loc(1, 1), ast.FunctionDefPayload{Name: "f", Body: body})
	a.AddChild(root, fn)

	complete, err := New(a).Check()
	require.NoError(t, err)

	ty := complete.Context().TypeOf(uzu)
	require.NotNil(t, ty)
	assert.Equal(t, types.KindNumber, ty.Kind)
	assert.Equal(t, types.I32, ty.Number)
}

// TestCheck_S5_AmbiguousImport covers:
//
//	module a { pub struct Foo {} }
//	module b { pub struct Foo {} }
//	use a::Foo;
//	use b::Foo;
//
// Exactly one AmbiguousImport is expected, not two.
func TestCheck_S5_AmbiguousImport(t *testing.T) {
	a2 := arena.New()
	root := a2.NewRoot(ast.KindSourceFile, loc(1, 1), ast.SourceFilePayload{Path: "s5.vey"})

	modA := a2.NewNode(ast.KindModuleDef, loc(1, 1), ast.ModuleDefPayload{Name: "a", Visibility: ast.Public})
	a2.AddChild(root, modA)
	fooA := a2.NewNode(ast.KindStructDef, loc(1, 12), ast.StructDefPayload{Name: "Foo", Visibility: ast.Public})
	a2.AddChild(modA, fooA)

	modB := a2.NewNode(ast.KindModuleDef, loc(2, 1), ast.ModuleDefPayload{Name: "b", Visibility: ast.Public})
	a2.AddChild(root, modB)
	fooB := a2.NewNode(ast.KindStructDef, loc(2, 12), ast.StructDefPayload{Name: "Foo", Visibility: ast.Public})
	a2.AddChild(modB, fooB)

	useA := a2.NewNode(ast.KindUseDirective, loc(3, 1), ast.UseDirectivePayload{Path: []string{"a", "Foo"}})
	a2.AddChild(root, useA)
	useB := a2.NewNode(ast.KindUseDirective, loc(4, 1), ast.UseDirectivePayload{Path: []string{"b", "Foo"}})
	a2.AddChild(root, useB)

	complete, err := New(a2).Check()
	require.Error(t, err)

	ds := complete.Diagnostics()
	var ambiguous []diag.Diagnostic
	for _, d := range ds {
		if d.Code == diag.CodeAmbiguousImport {
			ambiguous = append(ambiguous, d)
		}
	}
	require.Len(t, ambiguous, 1)
	assert.Contains(t, ambiguous[0].Message, "Foo")
}

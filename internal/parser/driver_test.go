package parser

import (
	"os"
	"testing"

	"github.com/smacker/go-tree-sitter/rust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/parser/grammar"
)

// The driver's node-type contract is tree-sitter-rust's vocabulary
// (see the package comment in cst.go), so the tests register the
// stock rust binding and drive the walk with real CST trees.
func TestMain(m *testing.M) {
	grammar.Register(rust.GetLanguage())
	os.Exit(m.Run())
}

func parseFile(t *testing.T, src string) (*arena.Arena, ast.ID) {
	t.Helper()
	a, err := Parse("test.vey", []byte(src))
	require.NoError(t, err)
	roots := a.Roots()
	require.Len(t, roots, 1)
	return a, roots[0]
}

func useDirectives(a *arena.Arena, root ast.ID) []ast.UseDirectivePayload {
	var out []ast.UseDirectivePayload
	for _, id := range a.Children(root) {
		n := a.MustFindNode(id)
		if n.Kind == ast.KindUseDirective {
			out = append(out, n.Payload.(ast.UseDirectivePayload))
		}
	}
	return out
}

func TestParse_UseDeclarationForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []ast.UseDirectivePayload
	}{
		{
			name: "plain path",
			src:  "use a::b::c;",
			want: []ast.UseDirectivePayload{
				{Path: []string{"a", "b", "c"}},
			},
		},
		{
			name: "glob",
			src:  "use a::b::*;",
			want: []ast.UseDirectivePayload{
				{Path: []string{"a", "b"}, Glob: true},
			},
		},
		{
			name: "alias",
			src:  "use a::b as c;",
			want: []ast.UseDirectivePayload{
				{Path: []string{"a"}, Partial: true, Items: []ast.PartialImportItem{{OriginalName: "b", LocalName: "c"}}},
			},
		},
		{
			name: "nested list",
			src:  "use a::{x, y as z};",
			want: []ast.UseDirectivePayload{
				{Path: []string{"a", "x"}},
				{Path: []string{"a"}, Partial: true, Items: []ast.PartialImportItem{{OriginalName: "y", LocalName: "z"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, root := parseFile(t, tt.src)
			got := useDirectives(a, root)
			require.Len(t, got, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.Path, got[i].Path, "directive %d path", i)
				assert.Equal(t, want.Glob, got[i].Glob, "directive %d glob flag", i)
				assert.Equal(t, want.Partial, got[i].Partial, "directive %d partial flag", i)
				assert.Equal(t, want.Items, got[i].Items, "directive %d items", i)
			}
		})
	}
}

// TestParse_BlockStatementTailSplit: in `{ let x = 1; x }` the let
// binding lands in Statements and the trailing bare identifier
// becomes the block's Tail value.
func TestParse_BlockStatementTailSplit(t *testing.T) {
	a, _ := parseFile(t, "fn f() -> i32 { let x = 1; x }")

	fns := a.Functions()
	require.Len(t, fns, 1)
	fp := fns[0].Payload.(ast.FunctionDefPayload)
	assert.Equal(t, "f", fp.Name)
	require.True(t, fp.Body.Valid())

	bp := a.MustFindNode(fp.Body).Payload.(ast.BlockExprPayload)
	require.Len(t, bp.Statements, 1)

	let := a.MustFindNode(bp.Statements[0])
	require.Equal(t, ast.KindLetStmt, let.Kind)
	lp := let.Payload.(ast.LetStmtPayload)
	assert.Equal(t, "x", lp.Name)
	require.True(t, lp.Value.Valid())
	assert.Equal(t, ast.KindLiteralExpr, a.MustFindNode(lp.Value).Kind)

	require.True(t, bp.Tail.Valid())
	tail := a.MustFindNode(bp.Tail)
	require.Equal(t, ast.KindIdentifierExpr, tail.Kind)
	assert.Equal(t, "x", tail.Payload.(ast.IdentifierExprPayload).Name)
}

// TestParse_ParentChildrenAgree: every child recorded in a parent's
// children list maps back to that parent.
func TestParse_ParentChildrenAgree(t *testing.T) {
	a, root := parseFile(t, "use a::b;\nfn f() -> i32 { let x = 1; x }")

	checked := 0
	var walk func(id ast.ID)
	walk = func(id ast.ID) {
		for _, child := range a.Children(id) {
			parent, ok := a.FindParent(child)
			require.True(t, ok, "child %d has no parent entry", child)
			assert.Equal(t, id, parent, "child %d parent mismatch", child)
			checked++
			walk(child)
		}
	}
	walk(root)
	assert.Greater(t, checked, 0)
}

func TestSplitNumberSuffix(t *testing.T) {
	tests := []struct {
		input      string
		wantDigits string
		wantSuffix string
	}{
		{input: "42", wantDigits: "42", wantSuffix: ""},
		{input: "7i64", wantDigits: "7", wantSuffix: "i64"},
		{input: "255u8", wantDigits: "255", wantSuffix: "u8"},
		{input: "0", wantDigits: "0", wantSuffix: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			digits, suffix := splitNumberSuffix(tt.input)
			assert.Equal(t, tt.wantDigits, digits)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}

// TestNondetBlockDispatch: the four nondeterministic block node types
// map to their arena kinds and are treated as statements, never tail
// values.
func TestNondetBlockDispatch(t *testing.T) {
	want := map[string]ast.Kind{
		"forall_block": ast.KindForallBlock,
		"exists_block": ast.KindExistsBlock,
		"assume_block": ast.KindAssumeBlock,
		"unique_block": ast.KindUniqueBlock,
	}
	for nodeType, kind := range want {
		assert.Equal(t, kind, nondetKind[nodeType], nodeType)
		assert.True(t, isStatementShaped(nodeType), nodeType)
	}
	assert.Len(t, nondetKind, len(want))
}

func TestIsStatementShaped(t *testing.T) {
	tests := []struct {
		nodeType string
		want     bool
	}{
		{nodeType: "let_declaration", want: true},
		{nodeType: "return_expression", want: true},
		{nodeType: "while_expression", want: true},
		{nodeType: "expression_statement", want: true},
		{nodeType: "identifier", want: false},
		{nodeType: "integer_literal", want: false},
		// An if in final position is the block's tail value.
		{nodeType: "if_expression", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			assert.Equal(t, tt.want, isStatementShaped(tt.nodeType))
		})
	}
}

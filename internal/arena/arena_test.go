package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/source"
)

func loc(start, end int) source.Location {
	return source.Location{OffsetStart: start, OffsetEnd: end, StartLine: 1, StartColumn: start + 1, EndLine: 1, EndColumn: end + 1}
}

func TestNewNode_AssignsNonZeroUniqueIDs(t *testing.T) {
	a := New()
	id1 := a.NewNode(ast.KindIdentifierExpr, loc(0, 1), ast.IdentifierExprPayload{Name: "x"})
	id2 := a.NewNode(ast.KindIdentifierExpr, loc(1, 2), ast.IdentifierExprPayload{Name: "y"})

	assert.True(t, id1.Valid())
	assert.True(t, id2.Valid())
	assert.NotEqual(t, id1, id2)
}

func TestAddChild_KeepsParentAndChildrenInLockstep(t *testing.T) {
	a := New()
	root := a.NewRoot(ast.KindSourceFile, loc(0, 10), ast.SourceFilePayload{Path: "f.vey", Text: "0123456789"})
	child := a.NewNode(ast.KindFunctionDef, loc(0, 5), ast.FunctionDefPayload{Name: "f"})

	a.AddChild(root, child)

	parent, ok := a.FindParent(child)
	require.True(t, ok)
	assert.Equal(t, root, parent)

	children := a.Children(root)
	require.Len(t, children, 1)
	assert.Equal(t, child, children[0])
}

func TestFindParent_RootHasNoParent(t *testing.T) {
	a := New()
	root := a.NewRoot(ast.KindSourceFile, loc(0, 1), ast.SourceFilePayload{Path: "f.vey", Text: "x"})

	_, ok := a.FindParent(root)
	assert.False(t, ok)
}

func TestFindNode_UnknownIDNotFound(t *testing.T) {
	a := New()
	_, ok := a.FindNode(ast.ID(999999))
	assert.False(t, ok)
}

func TestMustFindNode_PanicsOnUnknownID(t *testing.T) {
	a := New()
	assert.Panics(t, func() {
		a.MustFindNode(ast.ID(999999))
	})
}

func TestGetNodeSource_RoundTripsByteOffsets(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		end   int
		want  string
	}{
		{"whole text", "let x = 1;", 0, 10, "let x = 1;"},
		{"identifier slice", "let x = 1;", 4, 5, "x"},
		{"literal slice", "let x = 1;", 8, 9, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			root := a.NewRoot(ast.KindSourceFile, loc(0, len(tt.text)), ast.SourceFilePayload{Path: "f.vey", Text: tt.text})
			node := a.NewNode(ast.KindIdentifierExpr, loc(tt.start, tt.end), ast.IdentifierExprPayload{})
			a.AddChild(root, node)

			got, ok := a.GetNodeSource(node)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetNodeSource_OutOfRangeOffsetsFail(t *testing.T) {
	a := New()
	root := a.NewRoot(ast.KindSourceFile, loc(0, 3), ast.SourceFilePayload{Path: "f.vey", Text: "abc"})
	node := a.NewNode(ast.KindIdentifierExpr, loc(0, 50), ast.IdentifierExprPayload{})
	a.AddChild(root, node)

	_, ok := a.GetNodeSource(node)
	assert.False(t, ok)
}

func TestFindSourceFileForNode_WalksUpToRoot(t *testing.T) {
	a := New()
	root := a.NewRoot(ast.KindSourceFile, loc(0, 20), ast.SourceFilePayload{Path: "f.vey", Text: "fn f() { let x = 1; }"})
	fn := a.NewNode(ast.KindFunctionDef, loc(0, 20), ast.FunctionDefPayload{Name: "f"})
	a.AddChild(root, fn)
	block := a.NewNode(ast.KindBlockExpr, loc(8, 20), ast.BlockExprPayload{})
	a.AddChild(fn, block)
	let := a.NewNode(ast.KindLetStmt, loc(10, 19), ast.LetStmtPayload{Name: "x"})
	a.AddChild(block, let)

	fileID, ok := a.FindSourceFileForNode(let)
	require.True(t, ok)
	assert.Equal(t, root, fileID)
}

func TestFindSourceFileForNode_DetachedNodeNotFound(t *testing.T) {
	a := New()
	orphan := a.NewNode(ast.KindIdentifierExpr, loc(0, 1), ast.IdentifierExprPayload{Name: "x"})

	// An orphan with no root ancestor still resolves to itself if it IS
	// a source file; otherwise, having no parent entry, it fails.
	_, ok := a.FindSourceFileForNode(orphan)
	assert.False(t, ok)
}

func TestFilterNodes_ScopedToThisArenaOnly(t *testing.T) {
	a1 := New()
	a1.NewNode(ast.KindFunctionDef, loc(0, 1), ast.FunctionDefPayload{Name: "a1fn"})

	a2 := New()
	a2.NewNode(ast.KindFunctionDef, loc(0, 1), ast.FunctionDefPayload{Name: "a2fn1"})
	a2.NewNode(ast.KindFunctionDef, loc(1, 2), ast.FunctionDefPayload{Name: "a2fn2"})
	a2.NewNode(ast.KindStructDef, loc(2, 3), ast.StructDefPayload{Name: "S"})

	fns := a2.Functions()
	assert.Len(t, fns, 2, "FilterNodes must not see a1's nodes despite the shared global id counter")

	names := []string{}
	for _, n := range fns {
		names = append(names, n.Payload.(ast.FunctionDefPayload).Name)
	}
	assert.ElementsMatch(t, []string{"a2fn1", "a2fn2"}, names)
}

func TestListTypeDefinitions_CollectsAllTypeKinds(t *testing.T) {
	a := New()
	a.NewNode(ast.KindStructDef, loc(0, 1), ast.StructDefPayload{Name: "S"})
	a.NewNode(ast.KindEnumDef, loc(1, 2), ast.EnumDefPayload{Name: "E"})
	a.NewNode(ast.KindTypeAliasDef, loc(2, 3), ast.TypeAliasDefPayload{Name: "A"})
	a.NewNode(ast.KindSpecDef, loc(3, 4), ast.SpecDefPayload{Name: "Sp"})
	a.NewNode(ast.KindFunctionDef, loc(4, 5), ast.FunctionDefPayload{Name: "f"})

	defs := a.ListTypeDefinitions()
	assert.Len(t, defs, 4)
}

func TestGetChildrenCmp_IterativeDescentPreOrder(t *testing.T) {
	a := New()
	root := a.NewRoot(ast.KindSourceFile, loc(0, 10), ast.SourceFilePayload{Path: "f.vey", Text: "0123456789"})
	block := a.NewNode(ast.KindBlockExpr, loc(0, 10), ast.BlockExprPayload{})
	a.AddChild(root, block)
	let1 := a.NewNode(ast.KindLetStmt, loc(0, 3), ast.LetStmtPayload{Name: "a"})
	let2 := a.NewNode(ast.KindLetStmt, loc(3, 6), ast.LetStmtPayload{Name: "b"})
	a.AddChild(block, let1)
	a.AddChild(block, let2)

	lets := a.GetChildrenCmp(root, func(n *ast.Node) bool { return n.Kind == ast.KindLetStmt })

	require.Len(t, lets, 2)
	assert.Equal(t, let1, lets[0].ID)
	assert.Equal(t, let2, lets[1].ID)
}

func TestNodeCount_ReflectsAllAllocatedNodes(t *testing.T) {
	a := New()
	assert.Equal(t, 0, a.NodeCount())

	a.NewNode(ast.KindIdentifierExpr, loc(0, 1), ast.IdentifierExprPayload{Name: "x"})
	a.NewNode(ast.KindIdentifierExpr, loc(1, 2), ast.IdentifierExprPayload{Name: "y"})

	assert.Equal(t, 2, a.NodeCount())
}

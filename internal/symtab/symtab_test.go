package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/veyra/internal/types"
)

func TestDeclare_RejectsDuplicateInSameScope(t *testing.T) {
	tbl := New()
	ok1 := tbl.Declare(RootScope, &Symbol{Name: "Point", Kind: SymStruct})
	ok2 := tbl.Declare(RootScope, &Symbol{Name: "Point", Kind: SymStruct})

	assert.True(t, ok1)
	assert.False(t, ok2, "re-declaring the same name in the same scope must fail")
}

func TestDeclare_AllowsShadowingInChildScope(t *testing.T) {
	tbl := New()
	require.True(t, tbl.Declare(RootScope, &Symbol{Name: "x", Kind: SymConstant, Type: types.Num(types.I32)}))

	child := tbl.NewScope(RootScope)
	ok := tbl.Declare(child, &Symbol{Name: "x", Kind: SymVariable, Type: types.Bool()})
	assert.True(t, ok, "shadowing an outer-scope name is allowed")

	sym, found := tbl.Lookup(child, "x")
	require.True(t, found)
	assert.Equal(t, SymVariable, sym.Kind, "inner scope's binding must win")
}

func TestLookup_WalksUpToAncestors(t *testing.T) {
	tbl := New()
	require.True(t, tbl.Declare(RootScope, &Symbol{Name: "Global", Kind: SymFunction}))

	fnScope := tbl.NewScope(RootScope)
	blockScope := tbl.NewScope(fnScope)

	sym, found := tbl.Lookup(blockScope, "Global")
	require.True(t, found)
	assert.Equal(t, "Global", sym.Name)
}

func TestLookup_UnboundNameNotFound(t *testing.T) {
	tbl := New()
	_, found := tbl.Lookup(RootScope, "nope")
	assert.False(t, found)
}

func TestLookup_ResolvedImportFallsBackAfterLocalNames(t *testing.T) {
	tbl := New()
	root := tbl.Scope(RootScope)
	root.ResolvedImports["List"] = &Symbol{Name: "List", Kind: SymStruct}

	sym, found := tbl.Lookup(RootScope, "List")
	require.True(t, found)
	assert.Equal(t, SymStruct, sym.Kind)

	// A local declaration of the same name must shadow the import.
	require.True(t, tbl.Declare(RootScope, &Symbol{Name: "List", Kind: SymFunction}))
	sym, found = tbl.Lookup(RootScope, "List")
	require.True(t, found)
	assert.Equal(t, SymFunction, sym.Kind)
}

func TestLookupLocal_DoesNotSeeAncestorScopes(t *testing.T) {
	tbl := New()
	require.True(t, tbl.Declare(RootScope, &Symbol{Name: "Outer", Kind: SymStruct}))
	child := tbl.NewScope(RootScope)

	_, found := tbl.LookupLocal(child, "Outer")
	assert.False(t, found, "LookupLocal must not walk up to the parent scope")
}

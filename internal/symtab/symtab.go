// Package symtab implements the scope tree the type checker builds
// in phases 2-4 and queries during phase 5 inference. Scopes nest
// (module -> function -> block); lookup walks upward from the
// innermost scope, matching ordinary lexical-scoping rules, and
// stops at the first hit. Scopes are addressed by index rather than
// pointer since the checker holds onto scope ids across phases.
package symtab

import (
	"sort"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/types"
)

// ScopeID identifies one scope. Scope 0 is the implicit root (global)
// scope of a single compilation.
type ScopeID int

const RootScope ScopeID = 0

// SymbolKind discriminates the variant populated on a Symbol.
type SymbolKind int

const (
	SymTypeAlias SymbolKind = iota
	SymStruct
	SymEnum
	SymSpec
	SymFunction
	SymMethod
	SymConstant
	SymVariable
	SymModule
)

// Symbol is one name bound in some scope. Which extra fields are
// meaningful depends on Kind.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Visibility ast.Visibility
	DeclNode   ast.ID // the defining AST node, for diagnostics

	// DefiningScope is the scope the symbol was declared in. Visibility
	// checks compare an access site's
	// scope against this, not against the scope the lookup started
	// from, since lookup may have walked several ancestors upward.
	DefiningScope ScopeID

	// SymStruct / SymEnum / SymSpec / SymTypeAlias / SymFunction /
	// SymMethod / SymConstant / SymVariable: resolved type, populated
	// by the phase that owns this symbol kind.
	Type *types.TypeInfo

	// SymFunction / SymMethod only.
	TypeParams []string
	ReceiverOf string // SymMethod only: the struct/enum name it is defined on

	// SymModule only: the scope holding the module's own members, as
	// opposed to DefiningScope (the scope the module name itself lives
	// in). Import path resolution (phase 3) walks into InnerScope for
	// every non-terminal path segment that names a module.
	InnerScope ScopeID
}

// Scope is one node in the scope tree: a name->Symbol map plus the
// raw/resolved import lists of the `use` statements written directly
// in the file or module that owns this scope (populated on file-level
// and module scopes; nested scopes inherit resolved imports via upward
// lookup, they don't copy them).
type Scope struct {
	id       ScopeID
	parent   ScopeID
	hasParent bool
	names    map[string]*Symbol

	RawImports      []ast.ID // UseDirective node ids, phase 1
	ResolvedImports map[string]*Symbol // local name -> imported symbol, phase 3
}

// Table owns every scope created while building one compilation's
// symbol table.
type Table struct {
	scopes  []*Scope
	methods map[string]map[string]*Symbol // receiver type name -> method name -> Symbol
}

// New creates a table with only the root scope.
func New() *Table {
	t := &Table{methods: make(map[string]map[string]*Symbol)}
	t.scopes = append(t.scopes, &Scope{
		id:              RootScope,
		names:           make(map[string]*Symbol),
		ResolvedImports: make(map[string]*Symbol),
	})
	return t
}

// DeclareMethod registers a method symbol under its receiver type
// name. Returns false if that type already has a method of the same
// name (phase 4 duplicate-method detection).
func (t *Table) DeclareMethod(receiver string, sym *Symbol) bool {
	m, ok := t.methods[receiver]
	if !ok {
		m = make(map[string]*Symbol)
		t.methods[receiver] = m
	}
	if _, exists := m[sym.Name]; exists {
		return false
	}
	m[sym.Name] = sym
	return true
}

// LookupMethod finds a method by receiver type name and method name.
func (t *Table) LookupMethod(receiver, name string) (*Symbol, bool) {
	m, ok := t.methods[receiver]
	if !ok {
		return nil, false
	}
	sym, ok := m[name]
	return sym, ok
}

// Methods returns every method registered for receiver, for
// diagnostics that need to enumerate a type's method set.
func (t *Table) Methods(receiver string) map[string]*Symbol {
	return t.methods[receiver]
}

// IsDescendant reports whether scope a is s itself or a descendant of
// s, by walking a's ancestor chain.
func (t *Table) IsDescendant(a, s ScopeID) bool {
	cur := a
	for {
		if cur == s {
			return true
		}
		sc := t.scopes[cur]
		if !sc.hasParent {
			return false
		}
		cur = sc.parent
	}
}

// Accessible implements the visibility rule: a symbol defined in
// scope S is accessible from scope A iff it is Public, or A == S, or
// A is a descendant of S.
func (t *Table) Accessible(vis ast.Visibility, definingScope, accessScope ScopeID) bool {
	if vis == ast.Public {
		return true
	}
	return t.IsDescendant(accessScope, definingScope)
}

// NewScope creates a child scope of parent and returns its id.
func (t *Table) NewScope(parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, &Scope{
		id:              id,
		parent:          parent,
		hasParent:       true,
		names:           make(map[string]*Symbol),
		ResolvedImports: make(map[string]*Symbol),
	})
	return id
}

// Scope returns the scope for id. Panics on an unknown id, since ids
// are only ever handed out by NewScope on this same table.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.scopes[id]
}

// ScopeIDs returns every scope id created on this table so far, in
// creation order. Used by the checker to walk every scope's raw
// imports during phase 3 without threading scope ids through the
// phase 2 recursion a second time.
func (t *Table) ScopeIDs() []ScopeID {
	out := make([]ScopeID, len(t.scopes))
	for i := range t.scopes {
		out[i] = ScopeID(i)
	}
	return out
}

// Declare binds sym.Name in scope, returning false if the name is
// already bound in this exact scope (phase 2/4 duplicate detection;
// shadowing an outer scope's name is allowed and is not a duplicate).
func (t *Table) Declare(scope ScopeID, sym *Symbol) bool {
	s := t.scopes[scope]
	if _, exists := s.names[sym.Name]; exists {
		return false
	}
	s.names[sym.Name] = sym
	return true
}

// Lookup searches scope and its ancestors, innermost first, returning
// the first Symbol bound to name. Imports resolved onto a file-level
// scope are checked after local names at each level, matching the
// rule that a local declaration shadows an imported one of the same
// name.
func (t *Table) Lookup(scope ScopeID, name string) (*Symbol, bool) {
	cur := scope
	for {
		s := t.scopes[cur]
		if sym, ok := s.names[name]; ok {
			return sym, true
		}
		if sym, ok := s.ResolvedImports[name]; ok {
			return sym, true
		}
		if !s.hasParent {
			return nil, false
		}
		cur = s.parent
	}
}

// LookupLocal searches only scope itself, not its ancestors. Used by
// phase 2/4 duplicate checks, which care about "is this name already
// declared in THIS scope", not shadowing.
func (t *Table) LookupLocal(scope ScopeID, name string) (*Symbol, bool) {
	s := t.scopes[scope]
	sym, ok := s.names[name]
	return sym, ok
}

// Names returns every name bound directly in scope (not ancestors),
// sorted so enumeration order (and any diagnostics derived from it)
// is stable across runs.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

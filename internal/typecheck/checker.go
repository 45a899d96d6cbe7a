package typecheck

import (
	"errors"

	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/symtab"
	"github.com/oxhq/veyra/internal/types"
)

// checker holds every piece of state the five phases share. It is
// private: callers only ever see InitState and CompleteState, the
// typestate wrapper that keeps a running check from being queried
// mid-flight.
type checker struct {
	arena *arena.Arena
	syms  *symtab.Table
	errs  *diag.Bag

	nodeTypes map[ast.ID]*types.TypeInfo

	// scopeOf maps a SourceFile or ModuleDef node id to the scope its
	// direct members are declared into.
	scopeOf map[ast.ID]symtab.ScopeID

	// structNames / enumNames / specNames record which names are
	// registered as which kind, filled during phase 2's first pass and
	// consulted by its second pass when converting AST type nodes to
	// TypeInfo (distinguishes Struct("Foo") from Custom("Foo") before
	// every definition's fields are known).
	structNames map[string]bool
	enumNames   map[string]bool
	specNames   map[string]bool

	// declTypeParams records the type-parameter names declared on a
	// given definition node. Phases 2 and 4 fill it; nothing reads it
	// (phase 5 builds each function's type-parameter set from its own
	// payload).
	declTypeParams map[ast.ID][]string

	// fieldVisibility[structName][fieldName] records per-field
	// visibility, since types.TypeInfo's Fields map only carries
	// types; visibility is a checker-side concern, not a type-system
	// one.
	fieldVisibility map[string]map[string]ast.Visibility

	// structDefs holds each struct's fully-built TypeInfo (Fields,
	// FieldOrder) as soon as registerStruct runs, so a later reference
	// to that struct name (a function parameter, a let-binding
	// annotation, a cast target) resolves to the real field set
	// instead of the bare Name-only placeholder astTypeToTypeInfo
	// would otherwise synthesize for a KindNamedType/KindCustom node.
	structDefs map[string]*types.TypeInfo
}

func newChecker(a *arena.Arena) *checker {
	return &checker{
		arena:          a,
		syms:           symtab.New(),
		errs:           diag.NewBag(),
		nodeTypes:      make(map[ast.ID]*types.TypeInfo),
		scopeOf:        make(map[ast.ID]symtab.ScopeID),
		structNames:    make(map[string]bool),
		enumNames:      make(map[string]bool),
		specNames:      make(map[string]bool),
		declTypeParams: make(map[ast.ID][]string),
		fieldVisibility: make(map[string]map[string]ast.Visibility),
		structDefs:      make(map[string]*types.TypeInfo),
	}
}

// InitState is the only thing New returns. It exposes exactly one
// operation — Check — so a not-yet-run checker cannot be asked for
// results.
type InitState struct {
	c *checker
}

// New begins a check over arena a.
func New(a *arena.Arena) *InitState {
	return &InitState{c: newChecker(a)}
}

// CompleteState is what Check returns: it exposes two read-only
// operations — Context and Diagnostics — and nothing that could
// restart or mutate the finished check.
type CompleteState struct {
	c *checker
}

// Check runs Phases 1 through 5 unconditionally, in order, each
// completing before the next begins. Errors from an earlier phase
// never abort a later one — that is the mechanism by which a single
// run surfaces every diagnostic it can. If the accumulated diagnostic
// list is non-empty after Phase 5, Check fails with a joined error;
// CompleteState is still returned so a caller in AST-with-errors mode
// (mirroring the parser's ParseLenient) can still inspect whatever
// phase 5 managed to infer.
func (s *InitState) Check() (*CompleteState, error) {
	c := s.c

	c.phase1Directives()
	c.phase2RegisterTypes()
	c.phase3ResolveImports()
	c.phase4CollectFunctions()
	c.phase5InferVariables()

	complete := &CompleteState{c: c}
	if c.errs.HasErrors() {
		return complete, joinDiagnostics(c.errs.All())
	}
	return complete, nil
}

// Context extracts the read-only typed context from a completed
// check. Only reachable once Check has run.
func (s *CompleteState) Context() *Context {
	return &Context{
		Arena:     s.c.arena,
		Symbols:   s.c.syms,
		nodeTypes: s.c.nodeTypes,
	}
}

// Diagnostics returns every diagnostic recorded during the check, in
// emission order, deduplicated. Useful alongside the AST-with-errors
// path where the caller wants the list without re-deriving it from
// the joined error.
func (s *CompleteState) Diagnostics() []diag.Diagnostic {
	return s.c.errs.All()
}

func joinDiagnostics(ds []diag.Diagnostic) error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Build is a convenience wrapper for callers that just want the
// typestate dance collapsed into one call.
func Build(a *arena.Arena) (*Context, error) {
	complete, err := New(a).Check()
	if err != nil {
		return nil, err
	}
	return complete.Context(), nil
}

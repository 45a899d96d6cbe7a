// Package typecheck implements the five-phase bidirectional type
// checker: a typestate builder runs Phases 1-5 in order over an arena
// and produces a read-only Context downstream consumers (WASM
// codegen, the Rocq translator's caller) hold onto.
//
// The phase boundaries are load-bearing: later phases must see the
// side effects of earlier ones (registered types, resolved imports)
// but diagnostics from an earlier phase must never prevent a later
// phase from running.
package typecheck

import (
	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/symtab"
	"github.com/oxhq/veyra/internal/types"
)

// Context is the read-only bundle produced by a successful check
//: the arena, the node-id -> TypeInfo map covering every
// value expression, and the symbol table. It is the only handle
// downstream consumers need.
type Context struct {
	Arena   *arena.Arena
	Symbols *symtab.Table

	nodeTypes map[ast.ID]*types.TypeInfo
}

// TypeOf returns the resolved type of a value expression node, or nil
// if id has no entry (not a value expression, or checking failed
// before phase 5 reached it).
func (c *Context) TypeOf(id ast.ID) *types.TypeInfo {
	return c.nodeTypes[id]
}

// NodeTypes exposes the full node-id -> TypeInfo map for callers that
// need to iterate it (e.g. a future LLVM codegen backend walking every
// typed expression). Callers must not mutate the returned map.
func (c *Context) NodeTypes() map[ast.ID]*types.TypeInfo {
	return c.nodeTypes
}

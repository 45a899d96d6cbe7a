package typecheck

import (
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/symtab"
)

// phase1Directives walks every source file and registers each `use`
// statement as a raw import record on its enclosing scope. No
// resolution happens here and no diagnostics are produced; phase 3
// consumes these records.
func (c *checker) phase1Directives() {
	for _, root := range c.arena.Roots() {
		n, ok := c.arena.FindNode(root)
		if !ok || n.Kind != ast.KindSourceFile {
			continue
		}
		c.collectUseDirectives(root)
	}
}

// collectUseDirectives attaches every direct UseDirective child of
// container to the root scope. Module-scoped `use` declarations are
// attached once phase 2 creates the module's own scope; until then
// this walk only sees UseDirective nodes at the top level (a
// UseDirective inside an as-yet-unvisited ModuleDef is picked up when
// recordUseDirectivesIn below is called for that module during phase 2).
func (c *checker) collectUseDirectives(container ast.ID) {
	scope := c.scopeOf[container]
	for _, childID := range c.arena.Children(container) {
		n := c.arena.MustFindNode(childID)
		if n.Kind == ast.KindUseDirective {
			c.syms.Scope(scope).RawImports = append(c.syms.Scope(scope).RawImports, childID)
		}
	}
}

// recordUseDirectivesIn is phase 2's hook for a freshly created module
// scope: it runs the same UseDirective collection against a container
// whose scope now exists.
func (c *checker) recordUseDirectivesIn(container ast.ID, scope symtab.ScopeID) {
	for _, childID := range c.arena.Children(container) {
		n := c.arena.MustFindNode(childID)
		if n.Kind == ast.KindUseDirective {
			c.syms.Scope(scope).RawImports = append(c.syms.Scope(scope).RawImports, childID)
		}
	}
}

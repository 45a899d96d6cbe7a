package typecheck

import (
	"strings"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/symtab"
)

// phase3ResolveImports resolves imports: every raw import record
// written during phase 1 is resolved by walking the scope tree
// along its path, checking visibility at each step, and the result is
// installed as a resolved import on the scope that wrote the `use`.
func (c *checker) phase3ResolveImports() {
	for _, scope := range c.syms.ScopeIDs() {
		for _, useID := range c.syms.Scope(scope).RawImports {
			c.resolveImport(scope, useID)
		}
	}
}

func (c *checker) resolveImport(scope symtab.ScopeID, useID ast.ID) {
	n := c.arena.MustFindNode(useID)
	p := n.Payload.(ast.UseDirectivePayload)

	switch {
	case p.Glob:
		c.resolveGlobImport(scope, n, p)
	case p.Partial:
		c.resolvePartialImport(scope, n, p)
	default:
		c.resolvePlainImport(scope, n, p)
	}
}

// walkModulePath navigates every segment of path as a module name,
// starting from the root scope (imports are resolved against the
// whole program's scope tree, not the importer's local scope). It
// returns the final module's inner scope. A cycle is the same scope
// reached twice while resolving a single path.
func (c *checker) walkModulePath(path []string, accessScope symtab.ScopeID, n *ast.Node) (symtab.ScopeID, bool) {
	cur := symtab.RootScope
	visited := map[symtab.ScopeID]bool{cur: true}
	for _, seg := range path {
		sym, ok := c.syms.LookupLocal(cur, seg)
		if !ok || sym.Kind != symtab.SymModule {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeImportPathNotFound, Severity: diag.Error,
				Message: "import path segment `" + seg + "` not found",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			return 0, false
		}
		if !c.syms.Accessible(sym.Visibility, sym.DefiningScope, accessScope) {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeVisibilityViolation, Severity: diag.Error,
				Message: "module `" + seg + "` is private",
				Detail:  "Import",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			return 0, false
		}
		if visited[sym.InnerScope] {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeCircularImport, Severity: diag.Error,
				Message: "circular import resolving `" + strings.Join(path, "::") + "`",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			return 0, false
		}
		visited[sym.InnerScope] = true
		cur = sym.InnerScope
	}
	return cur, true
}

func (c *checker) resolvePlainImport(scope symtab.ScopeID, n *ast.Node, p ast.UseDirectivePayload) {
	if len(p.Path) == 0 {
		return
	}
	modulePath, last := p.Path[:len(p.Path)-1], p.Path[len(p.Path)-1]
	moduleScope, ok := c.walkModulePath(modulePath, scope, n)
	if !ok {
		return
	}
	sym, ok := c.syms.LookupLocal(moduleScope, last)
	if !ok {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeImportPathNotFound, Severity: diag.Error,
			Message: "import path segment `" + last + "` not found",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return
	}
	if !c.syms.Accessible(sym.Visibility, sym.DefiningScope, scope) {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeVisibilityViolation, Severity: diag.Error,
			Message: "`" + last + "` is private",
			Detail:  "Import",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return
	}
	c.installResolvedImport(scope, n, last, sym)
}

func (c *checker) resolvePartialImport(scope symtab.ScopeID, n *ast.Node, p ast.UseDirectivePayload) {
	moduleScope, ok := c.walkModulePath(p.Path, scope, n)
	if !ok {
		return
	}
	for _, item := range p.Items {
		sym, ok := c.syms.LookupLocal(moduleScope, item.OriginalName)
		if !ok {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeImportPathNotFound, Severity: diag.Error,
				Message: "import path segment `" + item.OriginalName + "` not found",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			continue
		}
		if !c.syms.Accessible(sym.Visibility, sym.DefiningScope, scope) {
			c.errs.Add(diag.Diagnostic{
				Code: diag.CodeVisibilityViolation, Severity: diag.Error,
				Message: "`" + item.OriginalName + "` is private",
				Detail:  "Import",
				File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
			})
			continue
		}
		c.installResolvedImport(scope, n, item.LocalName, sym)
	}
}

func (c *checker) resolveGlobImport(scope symtab.ScopeID, n *ast.Node, p ast.UseDirectivePayload) {
	moduleScope, ok := c.walkModulePath(p.Path, scope, n)
	if !ok {
		return
	}
	names := c.syms.Scope(moduleScope).Names()
	if len(names) == 0 {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeGlobImportFailure, Severity: diag.Error,
			Message: "glob import target `" + strings.Join(p.Path, "::") + "` has no public members",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return
	}
	any := false
	for _, name := range names {
		sym, ok := c.syms.LookupLocal(moduleScope, name)
		if !ok || sym.Visibility != ast.Public {
			continue
		}
		any = true
		c.installResolvedImport(scope, n, name, sym)
	}
	if !any {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeGlobImportFailure, Severity: diag.Error,
			Message: "glob import target `" + strings.Join(p.Path, "::") + "` has no public members",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
	}
}

func (c *checker) installResolvedImport(scope symtab.ScopeID, n *ast.Node, localName string, sym *symtab.Symbol) {
	s := c.syms.Scope(scope)
	if _, exists := s.ResolvedImports[localName]; exists {
		c.errs.Add(diag.Diagnostic{
			Code: diag.CodeAmbiguousImport, Severity: diag.Error,
			Message: "`" + localName + "` is imported more than once",
			File:    c.fileOf(n.ID), Line: n.Location.StartLine, Column: n.Location.StartColumn,
		})
		return
	}
	s.ResolvedImports[localName] = sym
}

// Package arena implements the single indexed store for all AST
// nodes: every node is addressed by a stable integer id, with parent
// and children views kept in lockstep so upward and downward
// traversal are both cheap.
//
// Ids are 1-based with 0 reserved as the nil sentinel, so a zero
// ast.ID always reads as "no node".
package arena

import (
	"sync/atomic"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/source"
)

// idCounter is the sole process-wide shared state: a
// monotonic atomic counter handing out node ids across every arena
// built in this process. It guarantees global uniqueness; ordering
// within one arena remains monotonic because construction for one
// file proceeds single-threaded.
var idCounter atomic.Uint32

func nextID() ast.ID {
	return ast.ID(idCounter.Add(1))
}

// Arena is the node store plus parent/children indices for one or more
// parsed source files. It is immutable after construction: the parser
// driver builds it, the type checker reads it but never rewrites
// nodes.
type Arena struct {
	nodes    map[ast.ID]*ast.Node
	parent   map[ast.ID]ast.ID
	children map[ast.ID][]ast.ID
	roots    []ast.ID
	order    []ast.ID // ids in allocation order, local to this arena
}

// New creates an empty arena ready for population by a parser driver.
func New() *Arena {
	return &Arena{
		nodes:    make(map[ast.ID]*ast.Node),
		parent:   make(map[ast.ID]ast.ID),
		children: make(map[ast.ID][]ast.ID),
	}
}

// NewNode allocates a fresh node with the next id from the shared
// counter, stores it, and returns its id. It does not attach the node
// to any parent; call AddChild for that.
func (a *Arena) NewNode(kind ast.Kind, loc source.Location, payload any) ast.ID {
	id := nextID()
	a.nodes[id] = &ast.Node{ID: id, Kind: kind, Location: loc, Payload: payload}
	a.order = append(a.order, id)
	return id
}

// NewRoot allocates a node with no parent and records it as a root
// (used for SourceFile nodes, one per parsed file).
func (a *Arena) NewRoot(kind ast.Kind, loc source.Location, payload any) ast.ID {
	id := a.NewNode(kind, loc, payload)
	a.roots = append(a.roots, id)
	return id
}

// AddChild appends child to parent's children list, in the order
// this is called (which must be source order), and records the
// reverse parent link. Both views are updated together so they never
// disagree.
func (a *Arena) AddChild(parent, child ast.ID) {
	a.children[parent] = append(a.children[parent], child)
	a.parent[child] = parent
}

// FindNode returns the node for id, O(1).
func (a *Arena) FindNode(id ast.ID) (*ast.Node, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// MustFindNode panics if id is not present. Intended for internal
// callers (type checker, Rocq emitter) that only ever hold ids they
// got from this same arena.
func (a *Arena) MustFindNode(id ast.ID) *ast.Node {
	n, ok := a.nodes[id]
	if !ok {
		panic("arena: unknown node id")
	}
	return n
}

// FindParent returns id's parent, or (InvalidID, false) for roots.
func (a *Arena) FindParent(id ast.ID) (ast.ID, bool) {
	p, ok := a.parent[id]
	return p, ok
}

// Children returns id's children in source order. The returned slice
// must not be mutated by callers.
func (a *Arena) Children(id ast.ID) []ast.ID {
	return a.children[id]
}

// Roots returns every root node id (one per parsed source file), in
// the order they were added.
func (a *Arena) Roots() []ast.ID {
	return a.roots
}

// SourceFiles returns every SourceFile node. O(n).
func (a *Arena) SourceFiles() []*ast.Node {
	var out []*ast.Node
	for _, id := range a.roots {
		if n := a.nodes[id]; n != nil && n.Kind == ast.KindSourceFile {
			out = append(out, n)
		}
	}
	return out
}

// Functions returns every FunctionDefinition node across the whole
// arena. O(n).
func (a *Arena) Functions() []*ast.Node {
	return a.FilterNodes(func(n *ast.Node) bool { return n.Kind == ast.KindFunctionDef })
}

// ListTypeDefinitions returns every struct/enum/type-alias/spec
// definition node across the whole arena. O(n).
func (a *Arena) ListTypeDefinitions() []*ast.Node {
	return a.FilterNodes(func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindStructDef, ast.KindEnumDef, ast.KindTypeAliasDef, ast.KindSpecDef:
			return true
		default:
			return false
		}
	})
}

// FilterNodes returns every node for which predicate holds. O(n).
// Iteration order is by ascending node id, which is also insertion
// order for a single arena.
func (a *Arena) FilterNodes(predicate func(*ast.Node) bool) []*ast.Node {
	var out []*ast.Node
	for _, id := range a.order {
		n := a.nodes[id]
		if predicate(n) {
			out = append(out, n)
		}
	}
	return out
}

// FindSourceFileForNode walks up from id until it reaches a root,
// returning that root's id iff it is a source file. O(depth).
func (a *Arena) FindSourceFileForNode(id ast.ID) (ast.ID, bool) {
	cur := id
	for {
		n, ok := a.nodes[cur]
		if !ok {
			return ast.InvalidID, false
		}
		if n.Kind == ast.KindSourceFile {
			return cur, true
		}
		parent, ok := a.parent[cur]
		if !ok {
			return ast.InvalidID, false
		}
		cur = parent
	}
}

// GetNodeSource finds the enclosing source file and slices its text
// by id's byte offsets. O(depth).
func (a *Arena) GetNodeSource(id ast.ID) (string, bool) {
	n, ok := a.nodes[id]
	if !ok {
		return "", false
	}
	fileID, ok := a.FindSourceFileForNode(id)
	if !ok {
		return "", false
	}
	fileNode := a.nodes[fileID]
	payload, ok := fileNode.Payload.(ast.SourceFilePayload)
	if !ok {
		return "", false
	}
	text := payload.Text
	start, end := n.Location.OffsetStart, n.Location.OffsetEnd
	if start < 0 || end > len(text) || start > end {
		return "", false
	}
	return text[start:end], true
}

// GetChildrenCmp performs an iterative depth-first descent starting
// at id, returning every descendant (including id itself when
// predicate holds) for which predicate holds. Iterative rather than
// recursive so deeply nested expressions cannot overflow the call
// stack.
func (a *Arena) GetChildrenCmp(id ast.ID, predicate func(*ast.Node) bool) []*ast.Node {
	var out []*ast.Node
	stack := []ast.ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok := a.nodes[cur]
		if !ok {
			continue
		}
		if predicate(n) {
			out = append(out, n)
		}
		children := a.children[cur]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// NodeCount returns the number of nodes currently stored. Useful for
// tests and debug dumps.
func (a *Arena) NodeCount() int {
	return len(a.nodes)
}

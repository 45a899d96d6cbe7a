package arena

import (
	"fmt"
	"strings"

	"github.com/oxhq/veyra/internal/ast"
)

// DebugString renders the arena as an indented text listing (kind, id,
// byte span); the CLI prints it for `check --show-recovery` when
// parsing fails.
func (a *Arena) DebugString() string {
	var b strings.Builder
	for _, root := range a.roots {
		a.writeNode(&b, root, 0)
	}
	return b.String()
}

func (a *Arena) writeNode(b *strings.Builder, id ast.ID, depth int) {
	n, ok := a.nodes[id]
	if !ok {
		return
	}
	fmt.Fprintf(b, "%s%s #%d [%d:%d]\n",
		strings.Repeat("  ", depth), n.Kind, n.ID, n.Location.OffsetStart, n.Location.OffsetEnd)
	for _, child := range a.children[id] {
		a.writeNode(b, child, depth+1)
	}
}

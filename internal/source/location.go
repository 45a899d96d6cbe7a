// Package source holds the value types used to describe positions in
// Veyra source text. Nothing in this package depends on the arena or
// the parser; it exists so every other package can share one definition
// of "where in the file" without import cycles.
package source

import "fmt"

// Location is a value-typed span into one source file's text.
//
// OffsetStart and OffsetEnd are byte offsets: start inclusive, end
// exclusive. StartLine/StartColumn/EndLine/EndColumn are 1-based,
// for diagnostics only. A Location never carries the source text
// itself — callers retrieve text by walking up to the enclosing
// source-file node.
type Location struct {
	OffsetStart int
	OffsetEnd   int
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Valid reports whether the location satisfies the basic well-formedness
// invariant: OffsetStart <= OffsetEnd.
func (l Location) Valid() bool {
	return l.OffsetStart <= l.OffsetEnd
}

// String renders the location in the "line:col" form diagnostics use as
// a prefix, e.g. "12:5".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.StartLine, l.StartColumn)
}

// Span renders "startLine:startCol-endLine:endCol" for debug dumps.
func (l Location) Span() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
}

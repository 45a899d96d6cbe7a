package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/parser/grammar"
)

// Parse runs the external grammar over src and walks its CST into a
// fresh Arena. A non-empty error list fails the call: the
// caller gets a joined error, not a partial arena.
func Parse(path string, src []byte) (*arena.Arena, error) {
	a, errs, err := parse(path, src)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, joinParseErrors(errs)
	}
	return a, nil
}

// ParseLenient runs the same walk but always returns the arena built
// so far alongside whatever parse errors were recorded, for callers
// that explicitly want an AST-with-errors (internal/cli's
// --show-recovery mode).
func ParseLenient(path string, src []byte) (*arena.Arena, []ParseError) {
	a, errs, err := parse(path, src)
	if err != nil {
		return a, []ParseError{{diag.Diagnostic{
			Code: diag.CodeSyntaxError, Severity: diag.Error, Message: err.Error(), File: path,
		}}}
	}
	return a, errs
}

func parse(path string, src []byte) (*arena.Arena, []ParseError, error) {
	lang := grammar.Language()
	if lang == nil {
		return nil, nil, fmt.Errorf("parser: no grammar registered; call grammar.Register before Parse")
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("parser: %w", err)
	}
	defer tree.Close()

	a := arena.New()
	b := &builder{arena: a, src: src, path: path, errs: diag.NewBag()}

	root := tree.RootNode()
	b.fileID = a.NewRoot(ast.KindSourceFile, b.loc(root), ast.SourceFilePayload{Path: path, Text: string(src)})

	if root.HasError() {
		b.errs.Add(diag.Diagnostic{
			Code: diag.CodeSyntaxError, Severity: diag.Error,
			Message: "source contains a syntax error the grammar could not recover from",
			File:    path, Line: 1, Column: 1,
		})
	}

	for _, child := range namedChildren(root) {
		b.walkTopLevel(b.fileID, child)
	}

	out := make([]ParseError, 0, b.errs.Len())
	for _, d := range b.errs.All() {
		out = append(out, ParseError{d})
	}
	return a, out, nil
}

func joinParseErrors(errs []ParseError) error {
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e.Diagnostic
	}
	return diagJoin(joined)
}

// walkTopLevel dispatches one direct child of a source_file (or
// mod_item body) to the matching definition/directive walker.
func (b *builder) walkTopLevel(parent ast.ID, n *sitter.Node) {
	switch n.Type() {
	case "use_declaration":
		b.walkUseDeclaration(parent, n)
	case "function_item":
		b.arena.AddChild(parent, b.walkFunction(n, "", false))
	case "struct_item":
		b.arena.AddChild(parent, b.walkStruct(n))
	case "enum_item":
		b.arena.AddChild(parent, b.walkEnum(n))
	case "const_item":
		b.arena.AddChild(parent, b.walkConst(n))
	case "type_item":
		b.arena.AddChild(parent, b.walkTypeAlias(n))
	case "mod_item":
		b.arena.AddChild(parent, b.walkModule(n))
	case "impl_item":
		b.arena.AddChild(parent, b.walkImpl(n))
	case "spec_item":
		b.arena.AddChild(parent, b.walkSpec(n))
	case "line_comment", "block_comment":
		// Not represented in the arena; there is no comment node
		// kind.
	default:
		b.errs.Add(diag.Diagnostic{
			Code: diag.CodeUnsupportedFeature, Severity: diag.Error,
			Message: fmt.Sprintf("unsupported top-level construct %q", n.Type()),
			File:    b.path, Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column) + 1,
		})
	}
}

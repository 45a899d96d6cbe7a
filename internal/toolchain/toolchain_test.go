package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/veyra/internal/arena"
	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/source"
	"github.com/oxhq/veyra/internal/typecheck"
)

func TestExecCodegen_Compile_MissingBinaryErrors(t *testing.T) {
	a := arena.New()
	a.NewRoot(ast.KindSourceFile, source.Location{}, ast.SourceFilePayload{Path: "main.vy", Text: ""})
	typed := &typecheck.Context{Arena: a}

	c := ExecCodegen{}
	err := c.Compile(context.Background(), typed, "out.wasm")
	assert.Error(t, err)
}

func TestExecLinker_Link_NoObjectsErrors(t *testing.T) {
	l := ExecLinker{BinPath: "wasm-ld"}
	err := l.Link(context.Background(), nil, "out.wasm")
	assert.Error(t, err)
}

func TestExecLinker_Link_MissingBinaryErrors(t *testing.T) {
	l := ExecLinker{}
	err := l.Link(context.Background(), []string{"a.o"}, "out.wasm")
	assert.Error(t, err)
}

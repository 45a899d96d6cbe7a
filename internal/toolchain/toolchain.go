// Package toolchain defines the Go-side contract the compiler core
// exposes to its external collaborators: the LLVM-based codegen
// backend and the WASM linker. Neither is implemented here — only
// the interfaces and thin os/exec adapters that invoke them. No other
// package in this module calls them.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/oxhq/veyra/internal/ast"
	"github.com/oxhq/veyra/internal/typecheck"
)

// ExternalCodegen lowers a fully type-checked program to a WASM object
// file. Implementations are expected to shell out to a real backend;
// Compile's only contract here is the Go-side call shape.
type ExternalCodegen interface {
	Compile(ctx context.Context, typed *typecheck.Context, outPath string) error
}

// ExternalLinker links one or more WASM object files into a final
// module.
type ExternalLinker interface {
	Link(ctx context.Context, objPaths []string, outPath string) error
}

// ExecCodegen shells out to a configured codegen binary as
// `<BinPath> <first source file path> -o <outPath>`. Beyond that one
// -o flag it assumes nothing about the backend's flag surface; that
// is a property of the binary at BinPath, not of this adapter.
type ExecCodegen struct {
	BinPath string
}

func (c ExecCodegen) Compile(ctx context.Context, typed *typecheck.Context, outPath string) error {
	if c.BinPath == "" {
		return fmt.Errorf("toolchain: no codegen binary configured")
	}
	files := typed.Arena.SourceFiles()
	if len(files) == 0 {
		return fmt.Errorf("toolchain: typed context has no source files to compile")
	}
	payload, ok := files[0].Payload.(ast.SourceFilePayload)
	if !ok {
		return fmt.Errorf("toolchain: source file node has no SourceFilePayload")
	}

	cmd := exec.CommandContext(ctx, c.BinPath, payload.Path, "-o", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("toolchain: codegen %s failed: %w: %s", c.BinPath, err, stderr.String())
	}
	return nil
}

// ExecLinker shells out to a configured linker binary.
type ExecLinker struct {
	BinPath string
}

func (l ExecLinker) Link(ctx context.Context, objPaths []string, outPath string) error {
	if l.BinPath == "" {
		return fmt.Errorf("toolchain: no linker binary configured")
	}
	if len(objPaths) == 0 {
		return fmt.Errorf("toolchain: no object files to link")
	}

	args := append([]string{}, objPaths...)
	args = append(args, "-o", outPath)

	cmd := exec.CommandContext(ctx, l.BinPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("toolchain: linker %s failed: %w: %s", l.BinPath, err, stderr.String())
	}
	return nil
}

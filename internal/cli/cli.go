// Package cli implements the command dispatch shared by cmd/veyrac:
// compile, check, and emit-rocq. Commands receive a pre-built *Env
// carrying config and cache, do their work, and report results
// through returned errors rather than calling os.Exit themselves.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/oxhq/veyra/internal/cache"
	"github.com/oxhq/veyra/internal/config"
	"github.com/oxhq/veyra/internal/diag"
	"github.com/oxhq/veyra/internal/parser"
	"github.com/oxhq/veyra/internal/parser/grammar"
	"github.com/oxhq/veyra/internal/rocq"
	"github.com/oxhq/veyra/internal/typecheck"
)

// Env bundles the dependencies every subcommand needs, built once in
// cmd/veyrac's main and threaded through instead of relying on
// package-level globals.
type Env struct {
	Cfg   *config.Config
	Cache *cache.Store
	Out   io.Writer
	Err   io.Writer

	// GrammarCandidates is every file under Cfg.GrammarSearchPaths
	// matching Cfg.GrammarSearchGlobs, discovered at startup. Loading
	// one into grammar.Register is a cgo concern this repo does not
	// perform; Check only reports when none were found, since a
	// veyrac invocation with no grammar registered cannot parse.
	GrammarCandidates []string
}

// NewEnv loads configuration, opens the compiled-artifact cache, and
// discovers any tree-sitter grammar binaries on disk.
func NewEnv() (*Env, error) {
	cfg := config.Load()
	store, err := cache.Open(cfg.CacheDBPath, false, cfg.CachePureGoSQLite)
	if err != nil {
		return nil, fmt.Errorf("cli: opening cache: %w", err)
	}
	candidates := grammar.Discover(cfg.GrammarSearchPaths, cfg.GrammarSearchGlobs)
	return &Env{Cfg: cfg, Cache: store, Out: os.Stdout, Err: os.Stderr, GrammarCandidates: candidates}, nil
}

// Check runs the parser and type checker over path's contents and
// reports diagnostics, without emitting anything. Returns a non-nil
// error when the file cannot be read or diagnostics were produced;
// the diagnostics themselves are always printed to env.Err regardless.
func (e *Env) Check(path string, showRecovery bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cli: reading %s: %w", path, err)
	}

	hash := cache.HashSource(src)
	if entry, ok, cerr := e.Cache.Lookup(hash); cerr == nil && ok && entry.CheckOK {
		fmt.Fprintf(e.Out, "%s: OK (cached)\n", path)
		return nil
	}

	if len(e.GrammarCandidates) == 0 {
		fmt.Fprintf(e.Err, "%s: no tree-sitter grammar found under %v\n", path, e.Cfg.GrammarSearchPaths)
	}

	var a interface{ DebugString() string }
	if showRecovery {
		lenientArena, parseErrs := parser.ParseLenient(path, src)
		if lenientArena != nil {
			a = lenientArena
		}
		for _, pe := range parseErrs {
			fmt.Fprintln(e.Err, pe.Diagnostic.Error())
		}
	}

	arenaVal, perr := parser.Parse(path, src)
	if perr != nil {
		fmt.Fprintln(e.Err, perr)
		if showRecovery && a != nil {
			fmt.Fprintln(e.Err, "--- recovered AST ---")
			fmt.Fprintln(e.Err, a.DebugString())
		}
		return perr
	}

	complete, cerr := typecheck.New(arenaVal).Check()
	if cerr != nil {
		for _, d := range complete.Diagnostics() {
			fmt.Fprintln(e.Err, d.Error())
		}
		return cerr
	}

	_ = e.Cache.Put(&cache.Entry{
		FileHash:   hash,
		SourcePath: path,
		ArenaNodes: arenaVal.NodeCount(),
		CheckOK:    true,
	})
	fmt.Fprintf(e.Out, "%s: OK\n", path)
	return nil
}

// Compile runs check. It does not invoke codegen or linking (the LLVM
// backend and WASM linker are external collaborators, and nothing
// here calls internal/toolchain). When emitRocq is set, or
// env.Cfg.EmitRocqByDefault is, it also reads wasmPath (a
// pre-existing WASM binary, since this repo does not implement
// codegen) and prints the translated Rocq source.
func (e *Env) Compile(path, wasmPath string, emitRocq bool) error {
	if err := e.Check(path, false); err != nil {
		return err
	}
	if !emitRocq && !e.Cfg.EmitRocqByDefault {
		return nil
	}
	return e.EmitRocq(wasmPath, moduleNameFor(path))
}

// EmitRocq translates an existing WASM binary to Rocq source and
// writes it to env.Out.
func (e *Env) EmitRocq(wasmPath, moduleName string) error {
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return fmt.Errorf("cli: reading %s: %w", wasmPath, err)
	}
	out, err := rocq.Emit(moduleName, wasmBytes)
	if err != nil {
		if d, ok := err.(diag.Diagnostic); ok {
			fmt.Fprintln(e.Err, d.Error())
		}
		return err
	}
	fmt.Fprint(e.Out, out)
	return nil
}

func moduleNameFor(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	for i := 0; i < len(base); i++ {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

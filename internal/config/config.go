// Package config loads Veyra's runtime configuration from
// environment variables: os.Getenv with prefixed names and defaulted
// fields.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every environment-tunable setting the compiler's CLI
// layer and cache need. Core compilation (parse/check/translate) never
// reads Config directly; it is wired through at the cmd/veyrac layer
// only, keeping internal/typecheck and internal/rocq free of ambient
// state; the node-id counter is the only process-wide state the
// compiler carries.
type Config struct {
	// CacheDBPath is the sqlite file backing internal/cache.
	CacheDBPath string
	// CachePureGoSQLite selects the glebarez/sqlite (cgo-free) GORM
	// dialector instead of gorm.io/driver/sqlite.
	CachePureGoSQLite bool

	// CodegenPath and LinkerPath are the external binaries
	// internal/toolchain's adapters shell out to.
	CodegenPath string
	LinkerPath  string

	// EmitRocqByDefault makes `veyrac compile` also emit Rocq output
	// without requiring `--emit-rocq` on every invocation.
	EmitRocqByDefault bool

	// GrammarSearchPaths are directories internal/parser searches for
	// an external tree-sitter grammar shared object, glob-matched with
	// doublestar against GrammarSearchGlobs.
	GrammarSearchPaths []string
	GrammarSearchGlobs []string
}

// Load reads configuration from VEYRA_* environment variables, first
// loading a local .env file if present. Missing variables fall back
// to defaults rather than failing.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		CacheDBPath:        envOr("VEYRA_CACHE_DB", ".veyra/cache.db"),
		CachePureGoSQLite:  envBool("VEYRA_CACHE_PURE_GO", false),
		CodegenPath:        envOr("VEYRA_CODEGEN_PATH", "veyra-codegen"),
		LinkerPath:         envOr("VEYRA_LINKER_PATH", "wasm-ld"),
		EmitRocqByDefault:  envBool("VEYRA_EMIT_ROCQ", false),
		GrammarSearchPaths: envList("VEYRA_GRAMMAR_PATHS", []string{"./grammars"}),
		GrammarSearchGlobs: envList("VEYRA_GRAMMAR_GLOBS", []string{"**/*.so", "**/*.dylib"}),
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// envList splits a colon-separated environment variable into a
// slice, PATH-style.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ':' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

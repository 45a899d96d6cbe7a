// Package grammar holds the registration point for the external
// concrete-syntax grammar the parser driver walks. Veyra does not
// vendor its own tree-sitter grammar in this repository: the
// generated parser.c a tree-sitter-veyra package ships is an external
// build artifact, the same way the LLVM backend and linker are.
//
// The shape mirrors the per-language packages under
// smacker/go-tree-sitter (golang, python, javascript, ...): a tiny Go
// file exposing a *sitter.Language value that internal/parser
// consumes without caring how it was built.
package grammar

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/smacker/go-tree-sitter"
)

var lang *sitter.Language

// Register installs the external grammar's Language value. A real
// veyrac build does this once at process startup, typically from an
// init() in a build-tagged file that cgo-imports the actual
// tree-sitter-veyra grammar package; this package only owns the
// registration point internal/parser depends on.
func Register(l *sitter.Language) {
	lang = l
}

// Language returns the registered grammar, or nil if Register has not
// been called yet.
func Language() *sitter.Language {
	return lang
}

// Discover walks searchPaths for files matching any of globs,
// returning every match across every path in walk order. It does not
// load or Register anything — a cgo build's init() still owns that —
// it only answers "what grammar binaries are sitting on disk".
// Matching uses doublestar.PathMatch instead of filepath.Glob, since
// a pattern with no `/` should also match by basename and a search
// path may legitimately contain no grammar at all.
func Discover(searchPaths, globs []string) []string {
	var found []string
	for _, dir := range searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if matchesAny(path, e.Name(), globs) {
				found = append(found, path)
			}
		}
	}
	return found
}

func matchesAny(path, basename string, globs []string) bool {
	for _, pattern := range globs {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, basename); err == nil && matched {
				return true
			}
		}
	}
	return false
}

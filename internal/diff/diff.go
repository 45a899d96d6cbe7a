// Package diff renders unified diffs between expected and actual
// text, wrapping go-difflib. No other package in this module imports
// it; the CLI has no diff output.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff between want and got, formatted with
// the given labels, or "" when the two are identical.
func Unified(fromLabel, toLabel, want, got string) (string, error) {
	if want == got {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// Lines splits s into its component lines without trailing newlines;
// an empty string yields nil.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

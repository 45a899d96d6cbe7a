package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_MatchesConfiguredGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "veyra.so"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "veyra.dylib"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))

	found := Discover([]string{dir}, []string{"*.so", "*.dylib"})

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "veyra.so"),
		filepath.Join(dir, "veyra.dylib"),
	}, found)
}

func TestDiscover_MissingSearchPathIsSkipped(t *testing.T) {
	found := Discover([]string{filepath.Join(t.TempDir(), "does-not-exist")}, []string{"*.so"})
	assert.Empty(t, found)
}

func TestDiscover_NoMatchingFilesReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	found := Discover([]string{dir}, []string{"*.so"})
	assert.Empty(t, found)
}

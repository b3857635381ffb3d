package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSourcesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.fluid")
	require.NoError(t, os.WriteFile(path, []byte("function main(argc: number, argv: string[]) -> number { return 0; }"), 0o644))

	files, err := FindSources(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindSourcesRejectsOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.txt")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := FindSources(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".fluid")
}

func TestFindSourcesWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.fluid"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.fluid"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte(""), 0o644))

	files, err := FindSources(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.fluid"),
		filepath.Join(dir, "sub", "a.fluid"),
	}, files)
}

func TestFindSourcesMissingPath(t *testing.T) {
	_, err := FindSources(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

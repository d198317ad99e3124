package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirExists(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	// --- Assert ---
	require.True(t, DirExists(dir))
	require.False(t, DirExists(file), "a regular file is not a directory")
	require.False(t, DirExists(filepath.Join(dir, "absent")))
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	// --- Assert ---
	require.True(t, FileExists(file))
	require.False(t, FileExists(dir), "a directory is not a regular file")
	require.False(t, FileExists(filepath.Join(dir, "absent")))
}

func TestChmodRecursive(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	sub := filepath.Join(root, "cache")
	require.NoError(t, os.Mkdir(sub, 0755))
	file := filepath.Join(sub, "data")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	// --- Act ---
	require.NoError(t, ChmodRecursive(root, 0777))

	// --- Assert ---
	info, err := os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0777), info.Mode().Perm())
}

func TestChmodRecursive_MissingRootIsNoop(t *testing.T) {
	t.Parallel()

	require.NoError(t, ChmodRecursive(filepath.Join(t.TempDir(), "absent"), 0777))
}

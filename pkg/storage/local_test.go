package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save("reports/march.txt", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "reports/march.txt", name)

	file, err := store.Open("reports/march.txt")
	require.NoError(t, err)
	defer file.Close()

	content, err := os.ReadFile(filepath.Join(dir, "reports", "march.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("never-written.txt"))
}

func TestLocalStorageRejectsAbsolutePaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "evil.txt")
	_, err = store.Save(target, []byte("payload"))
	require.Error(t, err)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorageRejectsParentTraversal(t *testing.T) {
	outer := t.TempDir()
	base := filepath.Join(outer, "exports")
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	for _, name := range []string{"../escaped.txt", "reports/../../escaped.txt", ".."} {
		_, err := store.Save(name, []byte("payload"))
		require.Error(t, err, name)
	}
	_, statErr := os.Stat(filepath.Join(outer, "escaped.txt"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = store.Open("../escaped.txt")
	require.Error(t, err)
	require.Error(t, store.Delete("../escaped.txt"))
}

func TestLocalStorageAllowsInternalDotDot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("reports/../march.txt", []byte("payload"))
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, "march.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestLocalStorageCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	_, err := NewLocalStorage(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

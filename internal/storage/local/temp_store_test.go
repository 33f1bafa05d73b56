package local_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samarth/internal/storage/local"
)

func TestTempStore_SaveReadDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := local.NewTempStore(dir)
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("image bytes"), "png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), data)

	require.NoError(t, store.Delete(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTempStore_DeleteTolerantOfMissingFile(t *testing.T) {
	dir := t.TempDir()
	store, err := local.NewTempStore(dir)
	require.NoError(t, err)

	assert.NoError(t, store.Delete(filepath.Join(dir, "already-gone.png")))
}

func TestTempStore_DeleteRefusesOutsidePaths(t *testing.T) {
	store, err := local.NewTempStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Delete("/etc/passwd"))
}

func TestTempStore_SaveStripsDotFromExt(t *testing.T) {
	store, err := local.NewTempStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("x"), ".jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	assert.False(t, strings.HasSuffix(path, "..jpg"))
}

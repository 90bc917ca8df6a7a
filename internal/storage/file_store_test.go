package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := NewFileStoreWithFs(afero.NewMemMapFs(), "/evidence", logger)
	require.NoError(t, err)
	return store
}

// TestSaveAndOpen tests the store and read-back roundtrip
func TestSaveAndOpen(t *testing.T) {
	store := newTestStore(t)

	path, size, err := store.Save(strings.NewReader("accreditation report"), ".pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len("accreditation report")), size)
	assert.Contains(t, path, "/evidence/")
	assert.Contains(t, path, ".pdf")

	f, err := store.Open(path)
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "accreditation report", string(content))
}

// TestSaveGeneratesUniqueNames tests that stored names never collide
func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	paths := make(map[string]bool)
	for i := 0; i < 20; i++ {
		path, _, err := store.Save(strings.NewReader("x"), ".txt")
		require.NoError(t, err)
		assert.False(t, paths[path], "stored path should be unique")
		paths[path] = true
	}
}

// TestRemoveIsIdempotent tests that removing a missing file is not an error
func TestRemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	path, _, err := store.Save(strings.NewReader("data"), ".bin")
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))

	exists, err := store.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	// Second removal of the same path must succeed too
	assert.NoError(t, store.Remove(path))
	assert.NoError(t, store.Remove("/evidence/never-existed.pdf"))
}

// TestRemoveAllToleratesMissingFiles tests that bulk removal never fails
func TestRemoveAllToleratesMissingFiles(t *testing.T) {
	store := newTestStore(t)

	path1, _, err := store.Save(strings.NewReader("one"), ".txt")
	require.NoError(t, err)
	path2, _, err := store.Save(strings.NewReader("two"), ".txt")
	require.NoError(t, err)

	store.RemoveAll([]string{path1, "/evidence/gone.txt", path2})

	for _, path := range []string{path1, path2} {
		exists, err := store.Exists(path)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}

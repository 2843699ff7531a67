package disk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestPutWritesFileAndReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "http://localhost:8080/", nil)
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "abc.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestPutRejectsPathKeys(t *testing.T) {
	store, err := NewStore(t.TempDir(), "", nil)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", "image/png", strings.NewReader("x"))
	require.Error(t, err)
}

func TestPutLeavesNothingBehindOnReadError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "", nil)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "abc.png", "image/png", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package adapters

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	att, err := storage.Save(ctx, "Receipt.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Receipt.PNG", att.OriginalName)
	assert.Equal(t, "image/png", att.MimeType)
	assert.Equal(t, int64(9), att.Size)
	assert.True(t, strings.HasSuffix(att.Filename, ".png"))
	assert.Equal(t, filepath.Join(dir, att.Filename), att.Path)
	assert.False(t, att.UploadedAt.IsZero())

	rc, err := storage.Open(ctx, att.Path)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, storage.Remove(ctx, att.Path))
	_, err = os.Stat(att.Path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, storage.Remove(ctx, att.Path), "removing twice is fine")
}

func TestLocalStorage_RejectsPathsOutsideDir(t *testing.T) {
	root := t.TempDir()
	storage, err := NewLocalStorage(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	_, err = storage.Open(context.Background(), outside)
	assert.Error(t, err)
	assert.Error(t, storage.Remove(context.Background(), filepath.Join(root, "uploads", "..", "secret.txt")))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

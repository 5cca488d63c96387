package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "cache.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_ReadMissing(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	_, err = s.Read(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_WriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "cache.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []byte("first, and longer")))
	require.NoError(t, s.Write(ctx, []byte("second")))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	// No temp files are left behind.
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileStore_Compression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json.zst")
	compressed, err := NewFileStore(path, WithCompression())
	require.NoError(t, err)
	ctx := context.Background()

	payload := bytes.Repeat([]byte(`{"city":"683506","description":"broken clouds"}`), 50)
	require.NoError(t, compressed.Write(ctx, payload))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, zstdMagic))
	assert.Less(t, len(raw), len(payload))

	got, err := compressed.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// A store without compression still reads the compressed file.
	plain, err := NewFileStore(path)
	require.NoError(t, err)
	got, err = plain.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

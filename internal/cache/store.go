package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned by a Store that has nothing persisted yet.
var ErrNotFound = errors.New("persisted cache not found")

// Store persists the serialized cache.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// FileStore keeps the cache in a single file, optionally zstd compressed.
type FileStore struct {
	path     string
	compress bool
}

type FileStoreOption func(*FileStore)

// WithCompression writes the file as a zstd frame. Reads accept both plain
// and compressed files regardless of this option.
func WithCompression() FileStoreOption {
	return func(s *FileStore) {
		s.compress = true
	}
}

// NewFileStore returns a store at path, creating its parent directories.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	s := &FileStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", s.path, err)
	}
	return out, nil
}

// Write replaces the file atomically so a crash never leaves a torn cache.
func (s *FileStore) Write(_ context.Context, data []byte) error {
	if s.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return err
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// FileBackend stores values as files in a directory, for CLI usage where no
// server-backed store is available. Keys are hashed into filenames so
// arbitrary key strings are safe on any filesystem.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file-based backend in the given directory.
// The directory is created if it doesn't exist.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

// Get retrieves a value. A missing file is a miss, not an error.
func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value.
func (b *FileBackend) Set(_ context.Context, key string, data []byte) error {
	return os.WriteFile(b.path(key), data, 0644)
}

// Delete removes a value. Deleting an absent key is not an error.
func (b *FileBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file backend.
func (b *FileBackend) Close() error { return nil }

// path converts a key to a file path inside the backend directory.
func (b *FileBackend) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(b.dir, hex.EncodeToString(sum[:8])+".json")
}

// Ensure FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)

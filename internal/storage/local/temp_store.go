// Package local implements the temp-file store on the local filesystem.
package local

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"samarth/internal/port"
)

type tempStore struct {
	dir string
}

// NewTempStore creates a TempFileStore rooted at dir, creating it if needed.
func NewTempStore(dir string) (port.TempFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	return &tempStore{dir: dir}, nil
}

func (s *tempStore) Save(r io.Reader, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	f, err := os.CreateTemp(s.dir, "upload-*."+ext)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), nil
}

func (s *tempStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading temp file: %w", err)
	}
	return data, nil
}

// Delete removes the file, tolerating paths that are already gone. Paths
// outside the store's directory are refused.
func (s *tempStore) Delete(path string) error {
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return fmt.Errorf("refusing to delete outside temp dir: %s", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting temp file: %w", err)
	}
	return nil
}

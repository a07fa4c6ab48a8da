// Package storage persists generated and uploaded image blobs. The disk
// store writes under a single directory served statically at BaseURL.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	Dir     string
	BaseURL string
}

func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveImage writes the blob under a fresh name and returns its public URL.
func (s *Store) SaveImage(data []byte, ext string) (string, error) {
	if ext == "" || !strings.HasPrefix(ext, ".") {
		ext = ".png"
	}
	name := uuid.NewString() + strings.ToLower(ext)

	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.BaseURL + "/" + name, nil
}

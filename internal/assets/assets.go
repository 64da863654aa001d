package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded bike images and returns a stable reference for the
// ticket document.
type Store interface {
	Save(ctx context.Context, fileName string, r io.Reader) (string, error)
}

// DirStore writes assets to a local directory.
type DirStore struct {
	dir string
}

// NewDirStore ensures the directory exists and returns the store.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Save copies the upload under a generated name, keeping the original
// extension.
func (s *DirStore) Save(_ context.Context, fileName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write asset: %w", err)
	}
	return name, nil
}

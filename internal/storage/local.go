package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage prefixes for the three artifact kinds.
const (
	PrefixUploads = "uploads"
	PrefixGradcam = "gradcam"
	PrefixReports = "reports"
)

// LocalStore writes uploaded artifacts to disk under a root directory,
// keyed by prefix. Stored paths are relative to the root so the root can
// move without rewriting rows.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Save persists data under prefix with a random name, keeping the original
// extension, and returns the relative path.
func (s *LocalStore) Save(prefix, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.root, prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}

	name := uuid.New().String() + filepath.Ext(filename)
	rel := filepath.Join(prefix, name)

	if err := os.WriteFile(filepath.Join(s.root, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return rel, nil
}

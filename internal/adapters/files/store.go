package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

// Store writes artifacts as plain files in dir, overwriting on every save.
type Store struct{ dir string }

func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *Store) Save(_ context.Context, name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		observability.ObserveArtifact("file", "error")
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		observability.ObserveArtifact("file", "error")
		return err
	}
	observability.ObserveArtifact("file", "save")
	return nil
}

func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		observability.ObserveArtifact("file", "miss")
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		observability.ObserveArtifact("file", "error")
		return nil, err
	}
	observability.ObserveArtifact("file", "load")
	return b, nil
}

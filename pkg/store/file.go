package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"archview/pkg/model"
)

// FileStore keeps each snapshot as a JSON file named <name>.json inside a
// single directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed snapshot store rooted at dir. An empty
// dir defaults to ~/.config/archview/snapshots. The directory is created if
// missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "archview", "snapshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory snapshots are stored in.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads and indexes the named snapshot.
func (s *FileStore) Load(_ context.Context, name string) (*model.Snapshot, error) {
	snap, err := model.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}

// Save writes the snapshot as indented JSON.
func (s *FileStore) Save(_ context.Context, name string, snap *model.Snapshot) error {
	return model.WriteFile(snap, s.path(name))
}

// List returns the stored snapshot names in lexical order.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named snapshot file if present.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot %s: %w", name, err)
	}
	return nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close(context.Context) error { return nil }

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/habitmosaic/pkg/chain"
)

// FileStore keeps one JSON document per chain in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store rooted at dir, creating it if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) chainPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) Backend() string { return "file" }

func (s *FileStore) Get(_ context.Context, id string) (*chain.Chain, error) {
	if err := validateID(id); err != nil {
		return nil, chain.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.chainPath(id))
}

func (s *FileStore) read(path string) (*chain.Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, chain.ErrNotFound
		}
		return nil, fmt.Errorf("read chain file: %w", err)
	}

	var c chain.Chain
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse chain %s: %w", filepath.Base(path), err)
	}
	if c.Days == nil {
		c.Days = map[string]bool{}
	}
	return &c, nil
}

func (s *FileStore) List(_ context.Context) ([]*chain.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var out []*chain.Chain
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		c, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *FileStore) Put(_ context.Context, c *chain.Chain) error {
	if err := validateID(c.ID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chain: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".chain-*")
	if err != nil {
		return fmt.Errorf("write chain file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write chain file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write chain file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.chainPath(c.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write chain file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return chain.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.chainPath(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return chain.ErrNotFound
		}
		return fmt.Errorf("remove chain file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ chain.Store = (*FileStore)(nil)

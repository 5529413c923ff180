package storage

import (
	"context"
	"sync"

	"github.com/matzehuels/habitmosaic/pkg/chain"
)

// MemoryStore keeps chains in a map. Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	chains map[string]*chain.Chain
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chains: make(map[string]*chain.Chain)}
}

func (s *MemoryStore) Backend() string { return "memory" }

func (s *MemoryStore) Get(_ context.Context, id string) (*chain.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chains[id]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*chain.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*chain.Chain, 0, len(s.chains))
	for _, c := range s.chains {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, c *chain.Chain) error {
	if err := validateID(c.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains[c.ID] = c.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chains[id]; !ok {
		return chain.ErrNotFound
	}
	delete(s.chains, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ chain.Store = (*MemoryStore)(nil)

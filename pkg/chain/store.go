package chain

import (
	"context"
	stderrors "errors"
)

// ErrNotFound is returned by stores when a chain does not exist.
var ErrNotFound = stderrors.New("chain not found")

// Store is the interface for chain storage backends.
//
// Implementations must be safe for concurrent use. Get and List return
// copies; callers may modify them freely and persist changes with Put.
type Store interface {
	// Get returns the chain with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Chain, error)

	// List returns all chains in no particular order.
	List(ctx context.Context) ([]*Chain, error)

	// Put inserts or replaces a chain.
	Put(ctx context.Context, c *Chain) error

	// Delete removes a chain. It returns ErrNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Named is implemented by stores that report a backend name for logging
// and observability.
type Named interface {
	Backend() string
}

func backendName(s Store) string {
	if n, ok := s.(Named); ok {
		return n.Backend()
	}
	return "custom"
}

// Package storage provides chain.Store backends.
//
//   - memory: in-process map for tests and throwaway sessions
//   - file: one JSON document per chain, the CLI default
//   - sqlite / postgres: a single chains table via database/sql
//   - redis: JSON documents in one hash
//   - mongo: one document per chain
//
// [Open] selects a backend from a config.StoreConfig.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/config"
	"github.com/matzehuels/habitmosaic/pkg/errors"
)

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (chain.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreFile, "":
		return NewFileStore(cfg.Path)
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.URL)
	case config.StoreRedis:
		return OpenRedis(ctx, cfg.URL, cfg.Database)
	case config.StoreMongo:
		return OpenMongo(ctx, cfg.URL, cfg.Database)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
}

// validateID rejects IDs that cannot be used as file names or keys.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || strings.ContainsRune(id, 0) {
		return fmt.Errorf("invalid chain id %q", id)
	}
	return nil
}

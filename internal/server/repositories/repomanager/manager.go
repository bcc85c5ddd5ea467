// Package repomanager wires the configured storage backend to the user
// repository and owns the backend's lifecycle (migrations, close).
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/config"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}

// NewRepositoryManager opens the backend named by cfg.StorageBackend.
func NewRepositoryManager(ctx context.Context, cfg *config.Config, l logging.Logger) (RepositoryManager, error) {
	switch cfg.StorageBackend {
	case config.BackendFile, "":
		return NewFileRepositoryManager(cfg.DataDir, l)
	case config.BackendPostgres:
		db, err := openDB("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositoryManager(db, l)
	case config.BackendS3:
		return NewS3RepositoryManager(ctx, cfg, l)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

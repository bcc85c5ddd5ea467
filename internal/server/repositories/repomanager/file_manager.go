package repomanager

import (
	"context"

	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/users"
)

type FileRepositoryManager struct {
	users *users.FileRepository
}

func (m *FileRepositoryManager) Users() users.Repository {
	return m.users
}

// RunMigrations is a no-op: the users directory is created on open.
func (m *FileRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *FileRepositoryManager) Close() error {
	return nil
}

func NewFileRepositoryManager(dataDir string, l logging.Logger) (RepositoryManager, error) {
	repo, err := users.NewFileRepository(dataDir, l)
	if err != nil {
		return nil, err
	}
	return &FileRepositoryManager{users: repo}, nil
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/migrations"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var (
	openDB         = sql.Open
	gooseUpContext = goose.UpContext
)

type PostgresRepositoryManager struct {
	db     *sql.DB
	logger logging.Logger
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db, m.logger)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func NewPostgresRepositoryManager(db *sql.DB, l logging.Logger) (RepositoryManager, error) {

	m := &PostgresRepositoryManager{db: db, logger: l}

	return m, nil
}

// Package dbx provides tiny DB abstractions shared by repositories.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// Ping checks connectivity. A *sql.DB is pinged directly; anything else
// (a transaction) runs a trivial query.
func Ping(ctx context.Context, db DBTX) error {
	if p, ok := db.(pinger); ok {
		return p.PingContext(ctx)
	}
	var one int
	return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Package users stores account records. All backends share the Repository
// contract: lookups that find nothing return common.ErrorNotFound, backend
// failures wrap common.ErrStorageUnavailable, and a single record that
// cannot be read or decoded is treated as absent rather than failing the
// whole lookup.
package users

import (
	"context"

	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
)

type Repository interface {
	// Create stores a new record keyed by user.ID. File and S3 backends do
	// not check email uniqueness; the caller must.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail matches the email exactly (case-sensitive).
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update overwrites the record stored under user.ID.
	Update(ctx context.Context, user *models.User) error

	// Ping checks that the backend is reachable and writable.
	Ping(ctx context.Context) error
}

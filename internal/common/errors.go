// Package common defines shared constants and sentinel errors used across
// the server and client layers. Callers should use errors.Is to match
// these values; most are returned wrapped with additional detail.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateAccount   = errors.New("account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrUnauthenticated    = errors.New("could not validate credentials")

	// Token errors. Validation never tells the caller why a token was
	// rejected, so there is a single value for every cause.
	ErrInvalidToken = errors.New("invalid token")
)

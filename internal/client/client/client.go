package client

import (
	"context"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
)

type Client interface {
	Close() error
	Register(ctx context.Context, req authpb.RegisterRequest) (*authpb.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*authpb.AuthResponse, error)
	Me(ctx context.Context) (*authpb.ProfileResponse, error)
	Logout(ctx context.Context) error
	Health(ctx context.Context) (*authpb.HealthResponse, error)
	Version(ctx context.Context) (*authpb.VersionResponse, error)
	LoggedIn() bool
}

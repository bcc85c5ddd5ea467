// Package grpc exposes the account service as paramita.auth.v1.AuthService.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"
	"google.golang.org/grpc"
)

// AccountService is the part of services.AccountService the transport uses.
type AccountService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (string, error)
	ProfileByID(ctx context.Context, userID string) (*models.Profile, error)
	Logout(ctx context.Context, token string) error
	Health(ctx context.Context) services.HealthStatus
}

type GRPCServer struct {
	authpb.UnimplementedAuthServiceServer
	address  string
	accounts AccountService
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, accounts AccountService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: accounts,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	// registers service
	authpb.RegisterAuthServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

package grpc

import (
	"context"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {

	var req authpb.RegisterRequest
	if err := authpb.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed request")
	}

	s.logger.Info(ctx, "Registration request", "email", req.Email)

	result, err := s.accounts.Register(ctx, services.RegisterRequest{
		Email:              req.Email,
		Password:           req.Password,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		s.logger.Warn(ctx, "Registration failed", "error", err)
		return nil, toStatus(err)
	}

	return s.reply(ctx, authpb.NewAuthResponse("Registration successful", result.Token, result.ExpiresAt, result.Profile))
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {

	var req authpb.LoginRequest
	if err := authpb.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed request")
	}

	result, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "Login failed", "error", err)
		return nil, toStatus(err)
	}

	return s.reply(ctx, authpb.NewAuthResponse("Login successful", result.Token, result.ExpiresAt, result.Profile))
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	profile, err := s.accounts.ProfileByID(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	return s.reply(ctx, authpb.ProfileResponse{Success: true, User: *profile})
}

func (s *GRPCServer) Logout(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	if err := s.accounts.Logout(ctx, tokenFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}

	return s.reply(ctx, authpb.MessageResponse{Success: true, Message: "Logout successful"})
}

func (s *GRPCServer) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	h := s.accounts.Health(ctx)

	return s.reply(ctx, authpb.NewHealthResponse(h.Healthy, h.Storage, h.Error))
}

func (s *GRPCServer) Version(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.reply(ctx, authpb.NewVersionResponse())
}

func (s *GRPCServer) reply(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := authpb.ToStruct(v)
	if err != nil {
		s.logger.Error(ctx, "encoding response", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

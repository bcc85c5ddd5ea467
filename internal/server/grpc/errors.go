package grpc

import (
	"errors"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Internal failures get a
// generic message.
func toStatus(err error) error {
	var ce *services.CredentialsError
	switch {
	case errors.As(err, &ce):
		return status.Error(codes.Unauthenticated, ce.Message)
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrDuplicateAccount):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateAccount.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrAccountInactive):
		return status.Error(codes.PermissionDenied, "your account has been deactivated")
	case errors.Is(err, common.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, common.ErrUnauthenticated.Error())
	case errors.Is(err, common.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, common.ErrStorageUnavailable.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

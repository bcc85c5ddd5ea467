package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	tokenKey  ctxKey = "token"
)

var authenticatedMethods = map[string]bool{
	authpb.AuthService_GetProfile_FullMethodName: true,
	authpb.AuthService_Logout_FullMethodName:     true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	ctx = logging.WithAttrs(ctx, "rpc", info.FullMethod)

	if authenticatedMethods[info.FullMethod] {

		accessToken := tokenFromMetadata(ctx)
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := s.accounts.Authenticate(ctx, accessToken)
		if err != nil {
			return nil, toStatus(err)
		}

		ctx = logging.WithAttrs(ctx, "user_id", userID)
		ctx = context.WithValue(ctx, userIDKey, userID)
		ctx = context.WithValue(ctx, tokenKey, accessToken)

	}

	return handler(ctx, req)
}

// tokenFromMetadata reads "authorization: Bearer <token>", falling back to
// the bare access_token key.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
		if token, ok := cutBearer(values[0]); ok {
			return token
		}
	}
	if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
		return values[0]
	}
	return ""
}

func cutBearer(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(common.BearerPrefix):]), true
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

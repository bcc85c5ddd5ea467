package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// fakeServer records the authorization metadata it sees and answers with
// canned responses.
type fakeServer struct {
	authpb.UnimplementedAuthServiceServer

	gotAuth  []string
	loginErr error
	meErr    error
}

func (f *fakeServer) record(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	f.gotAuth = append(f.gotAuth, md.Get(common.AuthorizationHeaderName)...)
}

func (f *fakeServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req authpb.RegisterRequest
	if err := authpb.FromStruct(in, &req); err != nil {
		return nil, err
	}
	if req.Email == "taken@example.com" {
		return nil, status.Error(codes.AlreadyExists, "account with this email already exists")
	}
	return authpb.ToStruct(authpb.AuthResponse{Success: true, AccessToken: "reg-token", User: models.Profile{Email: req.Email}})
}

func (f *fakeServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return authpb.ToStruct(authpb.AuthResponse{Success: true, AccessToken: "login-token"})
}

func (f *fakeServer) GetProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	f.record(ctx)
	if f.meErr != nil {
		return nil, f.meErr
	}
	return authpb.ToStruct(authpb.ProfileResponse{Success: true, User: models.Profile{ID: "u1", Email: "alice@example.com"}})
}

func (f *fakeServer) Logout(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	f.record(ctx)
	return authpb.ToStruct(authpb.MessageResponse{Success: true, Message: "Logout successful"})
}

func (f *fakeServer) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return authpb.ToStruct(authpb.NewHealthResponse(true, "file", ""))
}

func (f *fakeServer) Version(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return authpb.ToStruct(authpb.NewVersionResponse())
}

func newBufClient(t *testing.T, f *fakeServer) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	authpb.RegisterAuthServiceServer(srv, f)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewAuthClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return c
}

func TestGRPCClient_TokenLifecycle(t *testing.T) {
	f := &fakeServer{}
	c := newBufClient(t, f)
	ctx := context.Background()

	assert.False(t, c.LoggedIn())
	_, err := c.Me(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	resp, err := c.Register(ctx, authpb.RegisterRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.True(t, c.LoggedIn())

	_, err = c.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", me.User.ID)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.LoggedIn())

	assert.Equal(t, []string{"Bearer login-token", "Bearer login-token"}, f.gotAuth)

	require.ErrorIs(t, c.Logout(ctx), ErrNotLoggedIn)
}

func TestGRPCClient_HealthAndVersion(t *testing.T) {
	c := newBufClient(t, &fakeServer{})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.ServiceVersion, v.Version)
}

func TestGRPCClient_ErrorMapping(t *testing.T) {
	f := &fakeServer{loginErr: status.Error(codes.Unauthenticated, "incorrect password")}
	c := newBufClient(t, f)
	ctx := context.Background()

	_, err := c.Login(ctx, "alice@example.com", "nope")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "incorrect password")
	assert.False(t, c.LoggedIn())

	_, err = c.Register(ctx, authpb.RegisterRequest{Email: "taken@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrRejected)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}
	tests := []struct {
		in   error
		want error
	}{
		{status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{status.Error(codes.PermissionDenied, "x"), ErrUnauthorized},
		{status.Error(codes.InvalidArgument, "x"), ErrRejected},
		{status.Error(codes.AlreadyExists, "x"), ErrRejected},
		{status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
	}
	for _, tt := range tests {
		if got := c.mapError(tt.in); !errors.Is(got, tt.want) {
			t.Fatalf("mapError(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if c.mapError(nil) != nil {
		t.Fatal("nil must map to nil")
	}
	if got := c.mapError(status.Error(codes.Internal, "x")); errors.Is(got, ErrUnauthorized) || got == nil {
		t.Fatalf("unexpected mapping for Internal: %v", got)
	}
}

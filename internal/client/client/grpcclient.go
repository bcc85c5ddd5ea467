package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	conn        *grpc.ClientConn
	client      authpb.AuthServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAuthClient connects to endpointURL. Extra dial options are appended
// after the defaults.
func NewAuthClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, dialOpts: opts}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = authpb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, req authpb.RegisterRequest) (*authpb.AuthResponse, error) {

	in, err := authpb.ToStruct(req)
	if err != nil {
		return nil, err
	}

	out, err := s.client.Register(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.storeAuth(out)
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*authpb.AuthResponse, error) {

	in, err := authpb.ToStruct(authpb.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	out, err := s.client.Login(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.storeAuth(out)
}

func (s *GRPCClient) Me(ctx context.Context) (*authpb.ProfileResponse, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	out, err := s.client.GetProfile(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp authpb.ProfileResponse
	if err := authpb.FromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the server and forgets the token. The token is dropped even
// when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	_, err := s.client.Logout(ctx, &structpb.Struct{})
	s.setToken("")
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Health(ctx context.Context) (*authpb.HealthResponse, error) {
	out, err := s.client.Health(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp authpb.HealthResponse
	if err := authpb.FromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) Version(ctx context.Context) (*authpb.VersionResponse, error) {
	out, err := s.client.Version(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp authpb.VersionResponse
	if err := authpb.FromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) storeAuth(out *structpb.Struct) (*authpb.AuthResponse, error) {
	var resp authpb.AuthResponse
	if err := authpb.FromStruct(out, &resp); err != nil {
		return nil, err
	}
	s.setToken(resp.AccessToken)
	return &resp, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/cryptox"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/auth"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/users"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	repo, err := users.NewFileRepository(t.TempDir(), logging.Nop())
	require.NoError(t, err)
	hasher, err := cryptox.NewHasher(bcrypt.MinCost, 0)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("test-secret", time.Hour, logging.Nop())
	require.NoError(t, err)
	accounts := services.NewAccountService(repo, hasher, tokens, "file", logging.Nop())

	ts := httptest.NewServer(NewHTTPServer("", logging.Nop(), accounts).Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestAPI_Flow(t *testing.T) {
	ts := newTestAPI(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/register", "", map[string]string{
		"email": "alice@example.com", "password": "password123", "first_name": "Alice", "last_name": "Smith",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", body["token_type"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Alice", user["firstName"])
	assert.Equal(t, "en", user["languagePreference"])
	assert.Equal(t, "beginner", user["spiritualLevel"])
	assert.NotContains(t, user, "password")

	resp, body = do(t, http.MethodPost, ts.URL+"/register", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	resp, body = do(t, http.MethodPost, ts.URL+"/login", "", map[string]string{"email": "nobody@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, services.MsgUnknownEmail, body["message"])

	resp, body = do(t, http.MethodPost, ts.URL+"/login", "", map[string]string{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["access_token"].(string)

	resp, body = do(t, http.MethodGet, ts.URL+"/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", body["user"].(map[string]any)["email"])

	resp, _ = do(t, http.MethodGet, ts.URL+"/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

	resp, _ = do(t, http.MethodGet, ts.URL+"/me", "forged.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, http.MethodPost, ts.URL+"/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logout successful", body["message"])

	resp, body = do(t, http.MethodGet, ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "file", body["storage"])

	resp, body = do(t, http.MethodGet, ts.URL+"/version", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, common.ServiceVersion, body["version"])
	assert.Len(t, body["paramitas"], len(models.ParamitaNames))
}

func TestAPI_MalformedBody(t *testing.T) {
	ts := newTestAPI(t)

	resp, err := http.Post(ts.URL+"/register", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAPI_CORSPreflight(t *testing.T) {
	ts := newTestAPI(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// ---- error mapping ----

type fakeAccounts struct {
	err    error
	health services.HealthStatus
}

func (f *fakeAccounts) Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error) {
	return nil, f.err
}
func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	return nil, f.err
}
func (f *fakeAccounts) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	return nil, f.err
}
func (f *fakeAccounts) Logout(ctx context.Context, token string) error   { return f.err }
func (f *fakeAccounts) Health(ctx context.Context) services.HealthStatus { return f.health }

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: bad email", common.ErrValidation), http.StatusUnprocessableEntity},
		{common.ErrDuplicateAccount, http.StatusConflict},
		{&services.CredentialsError{Message: services.MsgWrongPassword}, http.StatusUnauthorized},
		{common.ErrAccountInactive, http.StatusForbidden},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("%w: disk", common.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHTTPServer("", logging.Nop(), &fakeAccounts{err: tt.err}).Router()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body authpb.MessageResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Message, "boom")
		})
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	h := NewHTTPServer("", logging.Nop(), &fakeAccounts{health: services.HealthStatus{Storage: "s3", Error: "bucket missing"}}).Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body authpb.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "bucket missing", body.Error)
}

func TestRequestLogger_TagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.BackendSlog, "debug", &buf)
	require.NoError(t, err)

	h := NewHTTPServer("", l, &fakeAccounts{}).Router()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("X-Request-Id", "req-123")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "/version", entry["path"])
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", logging.Nop(), &fakeAccounts{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

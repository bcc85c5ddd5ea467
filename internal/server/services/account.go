// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, login, profile lookups and
// logout on top of the user store, the password hasher and the token service.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/cryptox"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/users"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8

	MsgUnknownEmail  = "no account found with this email"
	MsgWrongPassword = "incorrect password"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) bool
}

// TokenIssuer issues and validates bearer tokens.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
	Validate(token string) (string, error)
}

// CredentialsError is a login failure. Every value matches
// common.ErrInvalidCredentials; Message only differs for display.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string { return e.Message }

func (e *CredentialsError) Unwrap() error { return common.ErrInvalidCredentials }

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	Email              string
	Password           string
	FirstName          string
	LastName           string
	LanguagePreference string
}

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   models.Profile
}

// HealthStatus reports whether the user store answers.
type HealthStatus struct {
	Healthy bool
	Storage string
	Error   string
}

// AccountService provides the account lifecycle:
// - Register: create a user and sign them in
// - Login: verify credentials and mint a token
// - GetProfile / Logout: token-authenticated operations
type AccountService struct {
	repo    users.Repository
	hasher  PasswordHasher
	tokens  TokenIssuer
	logger  logging.Logger
	storage string
	now     func() time.Time

	// registerMu serializes the email check and the insert so two
	// concurrent registrations of one email cannot both succeed.
	registerMu sync.Mutex

	dummyMu     sync.Mutex
	dummyDigest string
}

// NewAccountService constructs an AccountService. storage names the
// backend in health reports.
func NewAccountService(repo users.Repository, hasher PasswordHasher, tokens TokenIssuer, storage string, l logging.Logger) *AccountService {
	return &AccountService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		logger:  l,
		storage: storage,
		now:     time.Now,
	}
}

// Register validates req, creates an active account and returns a token
// for it. An existing email yields common.ErrDuplicateAccount.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	lang, err := validateRegistration(req)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: hashing password: %w", common.ErrorInternal, err)
	}

	// hashing runs outside the lock; only the check and the insert are serialized
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:                 uuid.NewString(),
		Email:              req.Email,
		PasswordHash:       digest,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		SpiritualLevel:     models.DefaultSpiritualLevel,
		LanguagePreference: lang,
		Status:             models.StatusActive,
		CreatedAt:          now,
		LastLoginAt:        now,
		Progress:           models.NewProgress(),
		History:            []json.RawMessage{},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, err
		}
		return nil, storageError(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return s.authResult(user)
}

// Login checks email and password and returns a fresh token. Unknown email
// and wrong password both match common.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a verify so unknown emails cost the same as wrong passwords
			s.hasher.Verify(ctx, password, s.dummyHash())
			return nil, &CredentialsError{Message: MsgUnknownEmail}
		}
		return nil, storageError(err)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &CredentialsError{Message: MsgWrongPassword}
	}

	if !user.IsActive() {
		return nil, common.ErrAccountInactive
	}

	user.LastLoginAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storageError(err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)

	return s.authResult(user)
}

// Authenticate resolves a token to the id of an existing account.
func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	user, err := s.userForToken(ctx, token)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// GetProfile returns the public profile of the token's owner.
func (s *AccountService) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	user, err := s.userForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

// ProfileByID returns the public profile of an already authenticated user.
func (s *AccountService) ProfileByID(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, storageError(err)
	}
	p := user.Profile()
	return &p, nil
}

// Logout only checks the token: tokens are stateless and stay valid until
// they expire.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	user, err := s.userForToken(ctx, token)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// Health probes the user store.
func (s *AccountService) Health(ctx context.Context) HealthStatus {
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Error(ctx, "storage health check failed", "error", err)
		return HealthStatus{Healthy: false, Storage: s.storage, Error: err.Error()}
	}
	return HealthStatus{Healthy: true, Storage: s.storage}
}

// --- helpers below ---

func (s *AccountService) userForToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "token subject has no account", "user_id", userID)
			return nil, common.ErrUnauthenticated
		}
		return nil, storageError(err)
	}
	return user, nil
}

func (s *AccountService) authResult(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issuing token: %w", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Profile: user.Profile()}, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrDuplicateAccount
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return storageError(err)
	}
}

// dummyHash returns a digest no password matches, computed with the
// configured hasher so a verify against it takes the usual time. It is
// built on first use, detached from the caller's context, and retried on
// the next call if building it failed.
func (s *AccountService) dummyHash() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyDigest != "" {
		return s.dummyDigest
	}

	secret, err := common.MakeRandHexString(16)
	if err != nil {
		s.logger.Error(context.Background(), "generating dummy password", "error", err)
		return ""
	}
	digest, err := s.hasher.Hash(context.Background(), secret)
	if err != nil {
		s.logger.Error(context.Background(), "hashing dummy password", "error", err)
		return ""
	}
	s.dummyDigest = digest
	return digest
}

func validateRegistration(req RegisterRequest) (models.Language, error) {
	if req.Email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil || addr.Address != req.Email {
		return "", fmt.Errorf("%w: %q is not a valid email address", common.ErrValidation, req.Email)
	}

	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}
	if len(req.Password) > cryptox.MaxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, cryptox.MaxPasswordBytes)
	}

	lang := models.Language(req.LanguagePreference)
	if lang == "" {
		lang = models.DefaultLanguage
	}
	if !lang.Valid() {
		return "", fmt.Errorf("%w: unsupported language %q", common.ErrValidation, req.LanguagePreference)
	}

	return lang, nil
}

func storageError(err error) error {
	if errors.Is(err, common.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
}

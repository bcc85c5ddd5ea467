// Package auth issues and validates the bearer tokens handed to clients.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultValidity is how long an issued token stays valid.
const DefaultValidity = 7 * 24 * time.Hour

// TokenService signs HS256 JWTs whose subject is the user id. Tokens are
// not stored anywhere and cannot be revoked before they expire.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
	logger   logging.Logger
}

// NewTokenService returns a TokenService. A non-positive validity selects
// DefaultValidity.
func NewTokenService(secretKey string, validity time.Duration, l logging.Logger) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("token signing key is empty")
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &TokenService{
		secret:   []byte(secretKey),
		validity: validity,
		now:      time.Now,
		logger:   l.With("module", "token_service"),
	}, nil
}

// Issue returns a signed token for userID and the moment it expires.
func (s *TokenService) Issue(userID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := ceilSecond(now.Add(s.validity))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ceilSecond rounds t up to a whole second, the resolution of the exp claim,
// so the signed expiry is never earlier than issue time plus validity and
// matches the reported one.
func ceilSecond(t time.Time) time.Time {
	if tr := t.Truncate(time.Second); !tr.Equal(t) {
		return tr.Add(time.Second)
	}
	return t
}

// Validate checks signature and expiry and returns the subject. Every
// failure is reported as common.ErrInvalidToken; the actual cause only goes
// to the log.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Warn(context.Background(), "token rejected", "reason", rejectReason(err))
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		s.logger.Warn(context.Background(), "token rejected", "reason", "missing subject")
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return err.Error()
	}
}

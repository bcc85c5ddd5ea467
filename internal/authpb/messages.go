// Package authpb describes the paramita.auth.v1.AuthService gRPC service.
// Messages travel as google.protobuf.Struct; the Go types below are their
// JSON shapes and are shared with the HTTP API.
package authpb

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const TokenType = "bearer"

type RegisterRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	LanguagePreference string `json:"language_preference,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse answers Register and Login.
type AuthResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        models.Profile `json:"user"`
}

type ProfileResponse struct {
	Success bool           `json:"success"`
	User    models.Profile `json:"user"`
}

// MessageResponse is a bare acknowledgement or error body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Success   bool      `json:"success"`
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Storage   string    `json:"storage"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type VersionResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Paramitas []string `json:"paramitas"`
}

// Empty is the request of parameterless methods.
type Empty struct{}

// ToStruct encodes v through its JSON form.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

// FromStruct decodes s into v through its JSON form. A nil s leaves v as is.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// NewVersionResponse describes this build.
func NewVersionResponse() VersionResponse {
	return VersionResponse{
		Service:   common.ServiceName,
		Version:   common.ServiceVersion,
		Paramitas: slices.Clone(models.ParamitaNames),
	}
}

func NewAuthResponse(message, token string, expiresAt time.Time, user models.Profile) AuthResponse {
	return AuthResponse{
		Success:     true,
		Message:     message,
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresAt:   expiresAt,
		User:        user,
	}
}

// NewHealthResponse reports the storage probe result. errMsg is empty when
// healthy.
func NewHealthResponse(healthy bool, storage, errMsg string) HealthResponse {
	resp := HealthResponse{
		Success:   healthy,
		Status:    "healthy",
		Service:   common.ServiceName,
		Version:   common.ServiceVersion,
		Storage:   storage,
		Error:     errMsg,
		Timestamp: time.Now().UTC(),
	}
	if !healthy {
		resp.Status = "unhealthy"
	}
	return resp
}

package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"
)

const maxBodyBytes = 1 << 16

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req authpb.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.accounts.Register(r.Context(), services.RegisterRequest{
		Email:              req.Email,
		Password:           req.Password,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authpb.NewAuthResponse("Registration successful", result.Token, result.ExpiresAt, result.Profile))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req authpb.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authpb.NewAuthResponse("Login successful", result.Token, result.ExpiresAt, result.Profile))
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		s.writeError(w, r, common.ErrUnauthenticated)
		return
	}

	profile, err := s.accounts.GetProfile(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authpb.ProfileResponse{Success: true, User: *profile})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		s.writeError(w, r, common.ErrUnauthenticated)
		return
	}

	if err := s.accounts.Logout(r.Context(), token); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authpb.MessageResponse{Success: true, Message: "Logout successful"})
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	h := s.accounts.Health(r.Context())
	code := http.StatusOK
	if !h.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, authpb.NewHealthResponse(h.Healthy, h.Storage, h.Error))
}

func (s *HTTPServer) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authpb.NewVersionResponse())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

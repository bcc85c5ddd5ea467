package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"
)

// errorResponse maps a service error to a status code and body.
func errorResponse(err error) (int, authpb.MessageResponse) {
	var ce *services.CredentialsError
	switch {
	case errors.As(err, &ce):
		return http.StatusUnauthorized, authpb.MessageResponse{Error: "Invalid credentials", Message: ce.Message}
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, authpb.MessageResponse{Error: "Validation error", Message: err.Error()}
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict, authpb.MessageResponse{Error: "User already exists", Message: "Account with this email already exists"}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, authpb.MessageResponse{Error: "Invalid credentials", Message: err.Error()}
	case errors.Is(err, common.ErrAccountInactive):
		return http.StatusForbidden, authpb.MessageResponse{Error: "Account inactive", Message: "Your account has been deactivated"}
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, authpb.MessageResponse{Error: "Unauthenticated", Message: "Could not validate credentials"}
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, authpb.MessageResponse{Error: "Service unavailable", Message: "Storage is unavailable"}
	default:
		return http.StatusInternalServerError, authpb.MessageResponse{Error: "Internal error", Message: "Internal error"}
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := errorResponse(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Warn(r.Context(), "request rejected", "path", r.URL.Path, "error", err)
	}
	if errors.Is(err, common.ErrUnauthenticated) {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

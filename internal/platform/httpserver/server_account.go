package httpserver

import (
	"errors"
	"net/http"

	"creatorhub/contexts/identity-access/account-service/domain/entities"
	accounterrors "creatorhub/contexts/identity-access/account-service/domain/errors"
	accounthttp "creatorhub/contexts/identity-access/account-service/transport/http"
	"creatorhub/internal/platform/auth"
)

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidRequest),
		errors.Is(err, accounterrors.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrUnderage):
		writeError(w, http.StatusForbidden, "underage", err.Error())
	case errors.Is(err, accounterrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, accounterrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleRegisterCreator(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, entities.RoleCreator)
}

func (s *Server) handleRegisterConsumer(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, entities.RoleConsumer)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, role entities.Role) {
	var req accounthttp.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Accounts.Handler.RegisterHandler(r.Context(), role, req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRegisterHint(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusBadRequest, "use_role_endpoint",
		"use /api/auth/register/creator or /api/auth/register/consumer")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Accounts.Handler.GetProfileHandler(r.Context(), claims.UserID)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req accounthttp.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Accounts.Handler.UpdateProfileHandler(r.Context(), claims.UserID, req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

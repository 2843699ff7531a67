package httpserver

import (
	"net/http"
	"strings"

	"creatorhub/internal/platform/auth"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, claims auth.Claims)

// requireAuth rejects requests without a valid bearer token. The chat
// websocket route may pass the token as ?token= since browsers cannot set
// headers on upgrade requests.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := s.requestToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		claims, err := s.tokens.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
			return
		}
		next(w, r, claims)
	}
}

// optionalAuth treats a missing or invalid token as an anonymous caller.
func (s *Server) optionalAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var claims auth.Claims
		if raw := s.requestToken(r); raw != "" {
			if verified, err := s.tokens.Verify(raw); err == nil {
				claims = verified
			}
		}
		next(w, r, claims)
	}
}

func (s *Server) requestToken(r *http.Request) string {
	if raw := auth.BearerToken(r.Header.Get("Authorization")); raw != "" {
		return raw
	}
	if strings.HasSuffix(r.URL.Path, "/ws") {
		return strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return ""
}

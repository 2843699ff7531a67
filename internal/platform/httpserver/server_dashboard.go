package httpserver

import (
	"errors"
	"net/http"

	dashboarderrors "creatorhub/contexts/internal-ops/creator-dashboard-service/domain/errors"
	"creatorhub/internal/platform/auth"
)

func (s *Server) handleCreatorDashboard(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Dashboard.Handler.CreatorDashboardHandler(r.Context(), claims.UserID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, dashboarderrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, dashboarderrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

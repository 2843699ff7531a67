package httpserver

import (
	"errors"
	"net/http"

	moderationerrors "creatorhub/contexts/moderation-safety/moderation-service/domain/errors"
	moderationhttp "creatorhub/contexts/moderation-safety/moderation-service/transport/http"
	"creatorhub/internal/platform/auth"
)

func writeModerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderationerrors.ErrInvalidRequest),
		errors.Is(err, moderationerrors.ErrMissingFields),
		errors.Is(err, moderationerrors.ErrInvalidTargetType),
		errors.Is(err, moderationerrors.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, moderationerrors.ErrBlockedContent):
		writeError(w, http.StatusBadRequest, "report_not_allowed", err.Error())
	case errors.Is(err, moderationerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, moderationerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, moderationerrors.ErrReportNotFound):
		writeError(w, http.StatusNotFound, "report_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req moderationhttp.CreateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Moderation.Handler.CreateReportHandler(r.Context(), claims.UserID, req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Moderation.Handler.ListReportsHandler(r.Context(), claims.UserID)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateReportStatus(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req moderationhttp.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Moderation.Handler.UpdateReportStatusHandler(r.Context(), claims.UserID, r.PathValue("id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package httpserver

import (
	"errors"
	"net/http"

	catalogerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"
	cataloghttp "creatorhub/contexts/community-experience/catalog-service/transport/http"
	"creatorhub/internal/platform/auth"
)

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidRequest),
		errors.Is(err, catalogerrors.ErrTitleRequired),
		errors.Is(err, catalogerrors.ErrInvalidFile):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, catalogerrors.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "invalid_user", err.Error())
	case errors.Is(err, catalogerrors.ErrForbidden),
		errors.Is(err, catalogerrors.ErrCreatorSuspended):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, catalogerrors.ErrContentNotFound):
		writeError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrCreatorNotFound):
		writeError(w, http.StatusNotFound, "creator_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Catalog.Handler.ListContentHandler(r.Context(), claims.UserID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Catalog.Handler.GetContentHandler(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req cataloghttp.CreateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Catalog.Handler.CreateContentHandler(r.Context(), claims.UserID, req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCreators(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Catalog.Handler.ListCreatorsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCreatorProfile(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Catalog.Handler.GetCreatorProfileHandler(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

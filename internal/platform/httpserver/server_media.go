package httpserver

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"creatorhub/contexts/community-experience/media-service/application"
	mediaerrors "creatorhub/contexts/community-experience/media-service/domain/errors"
	mediahttp "creatorhub/contexts/community-experience/media-service/transport/http"
	"creatorhub/internal/platform/auth"
)

const uploadFormField = "file"

type uploadFunc func(ctx context.Context, userID string, file application.File) (mediahttp.UploadResponse, error)

func writeMediaDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediaerrors.ErrFileMissing),
		errors.Is(err, mediaerrors.ErrUnsupportedType),
		errors.Is(err, mediaerrors.ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, "invalid_upload", err.Error())
	case errors.Is(err, mediaerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, mediaerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleUploadContentFile(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	s.upload(w, r, claims, s.modules.Media.Handler.UploadContentFileHandler)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	s.upload(w, r, claims, s.modules.Media.Handler.UploadAvatarHandler)
}

// upload streams the "file" part of a multipart body into the media service
// without buffering the whole request.
func (s *Server) upload(w http.ResponseWriter, r *http.Request, claims auth.Claims, handle uploadFunc) {
	part, err := filePart(r)
	if err != nil {
		writeMediaDomainError(w, mediaerrors.ErrFileMissing)
		return
	}
	defer part.Close()

	resp, err := handle(r.Context(), claims.UserID, application.File{
		Name:        part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Body:        part,
	})
	if err != nil {
		writeMediaDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func filePart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, mediaerrors.ErrFileMissing
			}
			return nil, err
		}
		if part.FormName() == uploadFormField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

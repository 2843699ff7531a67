package httpadapter

import (
	"context"

	"creatorhub/contexts/community-experience/media-service/application"
	httptransport "creatorhub/contexts/community-experience/media-service/transport/http"
)

type Handler struct {
	Service application.Service
}

// UploadContentFileHandler godoc
// @Summary Upload a content file
// @Description Multipart field "file"; image/* or video/* up to 20 MiB. Creators and admins only.
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Media file"
// @Success 201 {object} httptransport.UploadResponse
// @Failure 400 {object} httptransport.UploadResponse
// @Failure 403 {object} httptransport.UploadResponse
// @Router /api/uploads [post]
func (h Handler) UploadContentFileHandler(ctx context.Context, userID string, file application.File) (httptransport.UploadResponse, error) {
	upload, err := h.Service.UploadContentFile(ctx, userID, file)
	if err != nil {
		return httptransport.UploadResponse{}, err
	}
	return httptransport.UploadResponse{
		URL:      upload.URL,
		Type:     string(upload.Kind),
		Filename: upload.Filename,
		Size:     upload.Size,
	}, nil
}

// UploadAvatarHandler godoc
// @Summary Upload an avatar
// @Description Multipart field "file"; image/* up to 5 MiB. The URL becomes the caller's avatar.
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Avatar image"
// @Success 201 {object} httptransport.UploadResponse
// @Router /api/uploads/avatar [post]
func (h Handler) UploadAvatarHandler(ctx context.Context, userID string, file application.File) (httptransport.UploadResponse, error) {
	upload, err := h.Service.UploadAvatar(ctx, userID, file)
	if err != nil {
		return httptransport.UploadResponse{}, err
	}
	return httptransport.UploadResponse{
		URL:      upload.URL,
		Filename: upload.Filename,
		Size:     upload.Size,
	}, nil
}

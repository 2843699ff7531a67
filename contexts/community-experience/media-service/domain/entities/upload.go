package entities

import (
	"path"
	"strings"

	domainerrors "creatorhub/contexts/community-experience/media-service/domain/errors"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

const (
	MaxContentBytes int64 = 20 << 20
	MaxAvatarBytes  int64 = 5 << 20

	maxExtensionLen = 10
)

type Upload struct {
	URL         string
	Kind        Kind
	Filename    string
	Size        int64
	ContentType string
}

// ClassifyContent accepts image/* and video/*.
func ClassifyContent(contentType string) (Kind, error) {
	mediaType := normalizeType(contentType)
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage, nil
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo, nil
	}
	return "", domainerrors.ErrUnsupportedType
}

// ClassifyAvatar accepts image/* only.
func ClassifyAvatar(contentType string) (Kind, error) {
	if strings.HasPrefix(normalizeType(contentType), "image/") {
		return KindImage, nil
	}
	return "", domainerrors.ErrUnsupportedType
}

// ObjectName builds the stored file name from a random base, keeping the
// original extension when it is short and alphanumeric.
func ObjectName(base string, originalName string) string {
	ext := path.Ext(strings.ReplaceAll(originalName, "\\", "/"))
	if len(ext) < 2 || len(ext) > maxExtensionLen {
		return base
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return base
		}
	}
	return base + ext
}

func normalizeType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

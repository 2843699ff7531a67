package entities

import (
	"strings"
	"time"

	domainerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"
)

type File struct {
	URL          string
	Type         string
	ThumbnailURL string
	// PriceCents is nil when the file carries no unit price.
	PriceCents *int64
}

type Stats struct {
	Views int64
	Likes int64
}

type Content struct {
	ContentID   string
	CreatorID   string
	Title       string
	Description string
	Files       []File
	Stats       Stats
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PreviewURL is the first file URL, empty when the item has no files.
func (c Content) PreviewURL() string {
	if len(c.Files) == 0 {
		return ""
	}
	return c.Files[0].URL
}

// PreviewThumbnail is what locked viewers may see in place of the media.
func (c Content) PreviewThumbnail() string {
	if len(c.Files) == 0 {
		return ""
	}
	return c.Files[0].ThumbnailURL
}

// PriceCents is the unit price of the first file.
func (c Content) PriceCents() *int64 {
	if len(c.Files) == 0 {
		return nil
	}
	return c.Files[0].PriceCents
}

type Draft struct {
	Title       string
	Description string
	Files       []File
}

func (d Draft) Normalize() (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return Draft{}, domainerrors.ErrTitleRequired
	}
	files := make([]File, 0, len(d.Files))
	for _, file := range d.Files {
		file.URL = strings.TrimSpace(file.URL)
		file.Type = strings.TrimSpace(file.Type)
		file.ThumbnailURL = strings.TrimSpace(file.ThumbnailURL)
		if file.URL == "" || file.Type == "" {
			return Draft{}, domainerrors.ErrInvalidFile
		}
		if file.PriceCents != nil && *file.PriceCents < 0 {
			return Draft{}, domainerrors.ErrInvalidFile
		}
		files = append(files, file)
	}
	d.Files = files
	return d, nil
}

func NewContent(id string, creatorID string, draft Draft, now time.Time) Content {
	return Content{
		ContentID:   id,
		CreatorID:   creatorID,
		Title:       draft.Title,
		Description: draft.Description,
		Files:       draft.Files,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

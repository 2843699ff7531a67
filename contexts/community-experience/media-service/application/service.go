package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"creatorhub/contexts/community-experience/media-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/media-service/domain/errors"
	"creatorhub/contexts/community-experience/media-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	Store    ports.ObjectStore
	Accounts ports.AccountDirectory
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// UploadContentFile stores a creator's image or video.
func (s Service) UploadContentFile(ctx context.Context, userID string, file File) (entities.Upload, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return entities.Upload{}, err
	}
	role := identityv1.NormalizeRole(account.Role)
	if role != identityv1.RoleCreator && role != identityv1.RoleAdmin {
		return entities.Upload{}, domainerrors.ErrForbidden
	}
	if file.Body == nil {
		return entities.Upload{}, domainerrors.ErrFileMissing
	}
	kind, err := entities.ClassifyContent(file.ContentType)
	if err != nil {
		return entities.Upload{}, err
	}
	return s.put(ctx, account.UserID, file, kind, entities.MaxContentBytes)
}

// UploadAvatar stores an image and points the caller's avatar at it.
func (s Service) UploadAvatar(ctx context.Context, userID string, file File) (entities.Upload, error) {
	if file.Body == nil {
		return entities.Upload{}, domainerrors.ErrFileMissing
	}
	kind, err := entities.ClassifyAvatar(file.ContentType)
	if err != nil {
		return entities.Upload{}, err
	}
	account, err := s.account(ctx, userID)
	if err != nil {
		return entities.Upload{}, err
	}
	upload, err := s.put(ctx, account.UserID, file, kind, entities.MaxAvatarBytes)
	if err != nil {
		return entities.Upload{}, err
	}
	if err := s.Accounts.UpdateAvatar(ctx, account.UserID, upload.URL); err != nil {
		if errors.Is(err, identityv1.ErrAccountNotFound) {
			return entities.Upload{}, domainerrors.ErrUserNotFound
		}
		return entities.Upload{}, err
	}
	return upload, nil
}

func (s Service) put(ctx context.Context, userID string, file File, kind entities.Kind, limit int64) (entities.Upload, error) {
	if file.Size > limit {
		return entities.Upload{}, domainerrors.ErrFileTooLarge
	}
	base, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Upload{}, err
	}
	name := entities.ObjectName(base, file.Name)
	body := &cappedReader{r: file.Body, remaining: limit}

	url, err := s.Store.Put(ctx, name, file.ContentType, body)
	if err != nil {
		if errors.Is(err, domainerrors.ErrFileTooLarge) {
			return entities.Upload{}, domainerrors.ErrFileTooLarge
		}
		resolveLogger(s.Logger).Error("media upload failed",
			"event", "media_upload_failed",
			"module", "community-experience/media-service",
			"layer", "application",
			"user_id", userID,
			"filename", name,
			"error", err.Error(),
		)
		return entities.Upload{}, err
	}
	resolveLogger(s.Logger).Info("media uploaded",
		"event", "media_uploaded",
		"module", "community-experience/media-service",
		"layer", "application",
		"user_id", userID,
		"filename", name,
		"kind", string(kind),
		"size", body.read,
	)
	return entities.Upload{
		URL:         url,
		Kind:        kind,
		Filename:    name,
		Size:        body.read,
		ContentType: strings.TrimSpace(file.ContentType),
	}, nil
}

func (s Service) account(ctx context.Context, userID string) (identityv1.Account, error) {
	account, found, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(userID))
	if err != nil {
		return identityv1.Account{}, err
	}
	if !found {
		return identityv1.Account{}, domainerrors.ErrUserNotFound
	}
	return account, nil
}

// cappedReader fails with ErrFileTooLarge once more than remaining bytes
// have been read.
type cappedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, domainerrors.ErrFileTooLarge
	}
	return n, err
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ResolveLogger is exported for adapters of this context.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	return resolveLogger(logger)
}

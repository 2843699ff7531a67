package ports

import (
	"context"
	"io"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ObjectStore persists an object under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// AccountDirectory is served by the account context.
type AccountDirectory interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
	UpdateAvatar(ctx context.Context, userID string, avatarURL string) error
}

package ports

import (
	"context"
	"time"

	"creatorhub/contexts/identity-access/account-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash string, password string) bool
}

type TokenIssuer interface {
	Issue(userID string, role string) (string, error)
}

type Repository interface {
	CreateUser(ctx context.Context, user entities.User) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	// FindUserByLogin matches the identifier against the lowercased email or the username.
	FindUserByLogin(ctx context.Context, identifier string) (entities.User, error)
	SaveProfile(ctx context.Context, user entities.User) error
}

type Session struct {
	Token string
	User  entities.User
}

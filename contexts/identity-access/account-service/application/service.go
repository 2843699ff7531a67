package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/identity-access/account-service/domain/entities"
	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"
	"creatorhub/contexts/identity-access/account-service/ports"
)

type Service struct {
	Repo        ports.Repository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (s Service) Register(ctx context.Context, reg entities.Registration) (ports.Session, error) {
	logger := ResolveLogger(s.Logger)
	now := s.now()
	if err := reg.Validate(now); err != nil {
		return ports.Session{}, err
	}

	hash, err := s.Hasher.Hash(reg.Password)
	if err != nil {
		return ports.Session{}, err
	}
	userID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.Session{}, err
	}

	user := entities.NewUser(userID, reg, hash, now)
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrConflict) {
			logger.Info("registration rejected for duplicate identity",
				"event", "account_registration_conflict",
				"module", "identity-access/account-service",
				"layer", "application",
				"role", string(reg.Role),
			)
		}
		return ports.Session{}, err
	}

	token, err := s.Tokens.Issue(user.UserID, string(user.Role))
	if err != nil {
		return ports.Session{}, err
	}

	logger.Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", user.UserID,
		"role", string(user.Role),
	)
	return ports.Session{Token: token, User: user}, nil
}

func (s Service) Login(ctx context.Context, identifier string, password string) (ports.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return ports.Session{}, domainerrors.ErrMissingFields
	}

	user, err := s.Repo.FindUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return ports.Session{}, domainerrors.ErrInvalidCredentials
		}
		return ports.Session{}, err
	}
	if !s.Hasher.Matches(user.PasswordHash, password) {
		ResolveLogger(s.Logger).Warn("login rejected",
			"event", "account_login_rejected",
			"module", "identity-access/account-service",
			"layer", "application",
			"user_id", user.UserID,
		)
		return ports.Session{}, domainerrors.ErrInvalidCredentials
	}

	role := entities.NormalizeRole(string(user.Role))
	token, err := s.Tokens.Issue(user.UserID, string(role))
	if err != nil {
		return ports.Session{}, err
	}
	user.Role = role
	return ports.Session{Token: token, User: user}, nil
}

func (s Service) GetProfile(ctx context.Context, userID string) (entities.User, error) {
	if strings.TrimSpace(userID) == "" {
		return entities.User{}, domainerrors.ErrInvalidRequest
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}
	user.Role = entities.NormalizeRole(string(user.Role))
	return user, nil
}

func (s Service) UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (entities.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}
	user = update.Apply(user, s.now())
	if err := s.Repo.SaveProfile(ctx, user); err != nil {
		return entities.User{}, err
	}
	return user, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

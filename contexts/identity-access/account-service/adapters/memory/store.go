package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"creatorhub/contexts/identity-access/account-service/application"
	"creatorhub/contexts/identity-access/account-service/domain/entities"
	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"
	"creatorhub/contexts/identity-access/account-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

// Store is an in-memory adapter for accounts used by local runtime and tests.
type Store struct {
	mu         sync.RWMutex
	users      map[string]entities.User
	byEmail    map[string]string
	byUsername map[string]string
	sequence   uint64
}

var _ ports.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:      make(map[string]entities.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return domainerrors.ErrConflict
	}
	if _, ok := s.byUsername[user.Username]; ok {
		return domainerrors.ErrConflict
	}
	s.users[user.UserID] = user
	s.byEmail[user.Email] = user.UserID
	s.byUsername[user.Username] = user.UserID
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) FindUserByLogin(_ context.Context, identifier string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.byEmail[entities.NormalizeEmail(identifier)]; ok {
		return s.users[id], nil
	}
	if id, ok := s.byUsername[strings.TrimSpace(identifier)]; ok {
		return s.users[id], nil
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) SaveProfile(_ context.Context, user entities.User) error {
	err := s.update(user.UserID, func(current *entities.User) {
		current.DisplayName = user.DisplayName
		current.Bio = user.Bio
		current.AvatarURL = user.AvatarURL
		current.UpdatedAt = user.UpdatedAt
	})
	if err != nil {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID string) (identityv1.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return identityv1.Account{}, false, nil
	}
	return application.ToAccount(user), true, nil
}

func (s *Store) GetAccounts(_ context.Context, userIDs []string) (map[string]identityv1.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]identityv1.Account, len(userIDs))
	for _, id := range userIDs {
		if user, ok := s.users[id]; ok {
			out[id] = application.ToAccount(user)
		}
	}
	return out, nil
}

func (s *Store) ListCreators(_ context.Context, limit int) ([]identityv1.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0)
	for _, user := range s.users {
		if entities.NormalizeRole(string(user.Role)) == entities.RoleCreator {
			items = append(items, user)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]identityv1.Account, 0, len(items))
	for _, user := range items {
		out = append(out, application.ToAccount(user))
	}
	return out, nil
}

func (s *Store) ListSuspendedCreators(_ context.Context, endedBy time.Time) ([]identityv1.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]identityv1.Account, 0)
	for _, user := range s.users {
		if !user.IsSuspended || entities.NormalizeRole(string(user.Role)) != entities.RoleCreator {
			continue
		}
		if user.SuspendedUntil == nil || !user.SuspendedUntil.After(endedBy) {
			out = append(out, application.ToAccount(user))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Store) FindAccountBySubscriptionID(_ context.Context, subscriptionID string) (identityv1.Account, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(subscriptionID) == "" {
		return identityv1.Account{}, false, nil
	}
	for _, user := range s.users {
		if user.StripeSubscriptionID == subscriptionID {
			return application.ToAccount(user), true, nil
		}
	}
	return identityv1.Account{}, false, nil
}

func (s *Store) ActivateAccessPass(_ context.Context, userID string, expiresAt time.Time) error {
	return s.update(userID, func(user *entities.User) {
		value := expiresAt.UTC()
		user.AccessPassActive = true
		user.AccessPassExpiresAt = &value
	})
}

func (s *Store) SetSubscription(_ context.Context, userID string, state identityv1.SubscriptionState) error {
	return s.update(userID, func(user *entities.User) {
		user.SubscriptionActive = state.Active
		user.SubscriptionExpiresAt = state.ExpiresAt
		if state.StripeSubscriptionID != "" {
			user.StripeSubscriptionID = state.StripeSubscriptionID
		}
	})
}

func (s *Store) SetStripeCustomerID(_ context.Context, userID string, customerID string) error {
	return s.update(userID, func(user *entities.User) {
		user.StripeCustomerID = customerID
	})
}

func (s *Store) SaveModerationStatus(_ context.Context, userID string, status identityv1.ModerationStatus) error {
	return s.update(userID, func(user *entities.User) {
		user.VerifiedCreator = status.VerifiedCreator
		user.IsSuspended = status.IsSuspended
		user.SuspendedUntil = status.SuspendedUntil
	})
}

func (s *Store) UpdateAvatar(_ context.Context, userID string, avatarURL string) error {
	return s.update(userID, func(user *entities.User) {
		user.AvatarURL = avatarURL
	})
}

// PutUser seeds a user directly. Intended for tests and local fixtures.
func (s *Store) PutUser(user entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	s.byEmail[user.Email] = user.UserID
	s.byUsername[user.Username] = user.UserID
}

func (s *Store) update(userID string, mutate func(*entities.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return identityv1.ErrAccountNotFound
	}
	mutate(&user)
	s.users[userID] = user
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("usr-%d", value), nil
}

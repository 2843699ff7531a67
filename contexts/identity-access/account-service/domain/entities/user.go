package entities

import (
	"strings"
	"time"

	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

const (
	MinimumAge       = 18
	DefaultAvatarURL = "/default-avatar.png"
)

// NormalizeRole maps the legacy "user" role, and anything unknown, to consumer.
func NormalizeRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleCreator:
		return RoleCreator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleConsumer
	}
}

type User struct {
	UserID                string
	Username              string
	Email                 string
	PasswordHash          string
	DisplayName           string
	Bio                   string
	AvatarURL             string
	BirthDate             *time.Time
	AgeVerifiedAt         *time.Time
	Role                  Role
	AccessPassActive      bool
	AccessPassExpiresAt   *time.Time
	SubscriptionActive    bool
	SubscriptionExpiresAt *time.Time
	StripeCustomerID      string
	StripeSubscriptionID  string
	VerifiedCreator       bool
	IsSuspended           bool
	SuspendedUntil        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Registration struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Bio         string
	AvatarURL   string
	BirthDate   time.Time
	Role        Role
}

// Validate checks required fields and the age gate as of now.
func (r Registration) Validate(now time.Time) error {
	if strings.TrimSpace(r.Username) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		r.Password == "" ||
		strings.TrimSpace(r.DisplayName) == "" ||
		r.BirthDate.IsZero() {
		return domainerrors.ErrMissingFields
	}
	if r.Role != RoleCreator && r.Role != RoleConsumer {
		return domainerrors.ErrInvalidRequest
	}
	if !IsAdult(r.BirthDate, now) {
		return domainerrors.ErrUnderage
	}
	return nil
}

// IsAdult reports whether someone born on birthDate has reached MinimumAge by now,
// comparing calendar dates.
func IsAdult(birthDate time.Time, now time.Time) bool {
	if birthDate.IsZero() {
		return false
	}
	now = now.UTC()
	cutoff := time.Date(now.Year()-MinimumAge, now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return !birthDate.UTC().After(cutoff)
}

// NewUser builds a freshly registered, age-verified user.
func NewUser(userID string, reg Registration, passwordHash string, now time.Time) User {
	birthDate := reg.BirthDate.UTC()
	verifiedAt := now.UTC()
	user := User{
		UserID:        userID,
		Username:      strings.TrimSpace(reg.Username),
		Email:         NormalizeEmail(reg.Email),
		PasswordHash:  passwordHash,
		DisplayName:   strings.TrimSpace(reg.DisplayName),
		AvatarURL:     strings.TrimSpace(reg.AvatarURL),
		BirthDate:     &birthDate,
		AgeVerifiedAt: &verifiedAt,
		Role:          reg.Role,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
	if reg.Role == RoleCreator {
		user.Bio = strings.TrimSpace(reg.Bio)
	}
	if user.AvatarURL == "" {
		user.AvatarURL = DefaultAvatarURL
	}
	return user
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// Apply copies the provided fields onto the user. Empty avatar values are ignored.
func (p ProfileUpdate) Apply(user User, now time.Time) User {
	if p.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.Bio != nil {
		user.Bio = strings.TrimSpace(*p.Bio)
	}
	if p.AvatarURL != nil && strings.TrimSpace(*p.AvatarURL) != "" {
		user.AvatarURL = strings.TrimSpace(*p.AvatarURL)
	}
	user.UpdatedAt = now.UTC()
	return user
}

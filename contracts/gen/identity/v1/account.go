package v1

import (
	"errors"
	"strings"
	"time"
)

// ErrAccountNotFound is returned by account writers when the target user does not exist.
var ErrAccountNotFound = errors.New("account not found")

const (
	RoleConsumer = "consumer"
	RoleCreator  = "creator"
	RoleAdmin    = "admin"
)

// NormalizeRole maps stored role values onto the canonical set.
// The legacy "user" role and unknown values resolve to consumer.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleCreator:
		return RoleCreator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleConsumer
	}
}

// Account is the read projection of a user shared with other contexts.
// This package is generated-contract-only and must stay backward compatible.
type Account struct {
	UserID                string     `json:"user_id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	DisplayName           string     `json:"display_name"`
	Bio                   string     `json:"bio"`
	AvatarURL             string     `json:"avatar_url"`
	Role                  string     `json:"role"`
	AgeVerifiedAt         *time.Time `json:"age_verified_at,omitempty"`
	AccessPassActive      bool       `json:"access_pass_active"`
	AccessPassExpiresAt   *time.Time `json:"access_pass_expires_at,omitempty"`
	SubscriptionActive    bool       `json:"subscription_active"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	StripeCustomerID      string     `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID  string     `json:"stripe_subscription_id,omitempty"`
	VerifiedCreator       bool       `json:"verified_creator"`
	IsSuspended           bool       `json:"is_suspended"`
	SuspendedUntil        *time.Time `json:"suspended_until,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// PublicName is the display name, falling back to the username.
func (a Account) PublicName() string {
	if name := strings.TrimSpace(a.DisplayName); name != "" {
		return name
	}
	return a.Username
}

// ModerationStatus carries the creator flags owned by moderation.
type ModerationStatus struct {
	VerifiedCreator bool       `json:"verified_creator"`
	IsSuspended     bool       `json:"is_suspended"`
	SuspendedUntil  *time.Time `json:"suspended_until,omitempty"`
}

// SubscriptionState is written by billing when Stripe reports a subscription change.
type SubscriptionState struct {
	Active               bool       `json:"active"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	StripeSubscriptionID string     `json:"stripe_subscription_id,omitempty"`
}

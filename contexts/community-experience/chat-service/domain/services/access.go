package services

import (
	"strings"
	"time"
)

const (
	RoleConsumer = "consumer"
	RoleCreator  = "creator"
	RoleAdmin    = "admin"
)

type Participant struct {
	Role                  string
	SubscriptionActive    bool
	SubscriptionExpiresAt *time.Time
}

// CanChat is true for creators and admins, and for consumers holding a
// subscription that has not expired. A subscription without an end date
// counts as active.
func CanChat(p Participant, now time.Time) bool {
	switch strings.ToLower(strings.TrimSpace(p.Role)) {
	case RoleCreator, RoleAdmin:
		return true
	}
	if !p.SubscriptionActive {
		return false
	}
	return p.SubscriptionExpiresAt == nil || p.SubscriptionExpiresAt.After(now)
}

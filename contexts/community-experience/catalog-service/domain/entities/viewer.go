package entities

import "time"

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

// Viewer is the subset of an account the entitlement rules look at.
type Viewer struct {
	UserID                string
	Role                  Role
	AccessPassActive      bool
	AccessPassExpiresAt   *time.Time
	SubscriptionActive    bool
	SubscriptionExpiresAt *time.Time
}

// Creator is the public author card attached to content.
type Creator struct {
	UserID          string
	Username        string
	DisplayName     string
	Bio             string
	AvatarURL       string
	Role            Role
	VerifiedCreator bool
	IsSuspended     bool
}

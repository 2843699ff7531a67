package application

import (
	"creatorhub/contexts/identity-access/account-service/domain/entities"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

// ToAccount projects a user onto the cross-context account contract.
func ToAccount(user entities.User) identityv1.Account {
	return identityv1.Account{
		UserID:                user.UserID,
		Username:              user.Username,
		Email:                 user.Email,
		DisplayName:           user.DisplayName,
		Bio:                   user.Bio,
		AvatarURL:             user.AvatarURL,
		Role:                  string(entities.NormalizeRole(string(user.Role))),
		AgeVerifiedAt:         user.AgeVerifiedAt,
		AccessPassActive:      user.AccessPassActive,
		AccessPassExpiresAt:   user.AccessPassExpiresAt,
		SubscriptionActive:    user.SubscriptionActive,
		SubscriptionExpiresAt: user.SubscriptionExpiresAt,
		StripeCustomerID:      user.StripeCustomerID,
		StripeSubscriptionID:  user.StripeSubscriptionID,
		VerifiedCreator:       user.VerifiedCreator,
		IsSuspended:           user.IsSuspended,
		SuspendedUntil:        user.SuspendedUntil,
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
}

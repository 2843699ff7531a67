package application

import (
	"creatorhub/contexts/community-experience/catalog-service/domain/entities"

	catalogv1 "creatorhub/contracts/gen/catalog/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
)

func viewerFromAccount(account identityv1.Account) *entities.Viewer {
	return &entities.Viewer{
		UserID:                account.UserID,
		Role:                  entities.Role(identityv1.NormalizeRole(account.Role)),
		AccessPassActive:      account.AccessPassActive,
		AccessPassExpiresAt:   account.AccessPassExpiresAt,
		SubscriptionActive:    account.SubscriptionActive,
		SubscriptionExpiresAt: account.SubscriptionExpiresAt,
	}
}

func creatorFromAccount(account identityv1.Account) entities.Creator {
	return entities.Creator{
		UserID:          account.UserID,
		Username:        account.Username,
		DisplayName:     account.PublicName(),
		Bio:             account.Bio,
		AvatarURL:       account.AvatarURL,
		Role:            entities.Role(identityv1.NormalizeRole(account.Role)),
		VerifiedCreator: account.VerifiedCreator,
		IsSuspended:     account.IsSuspended,
	}
}

// SummaryFromContent projects an item for billing and reporting.
func SummaryFromContent(item entities.Content) catalogv1.ContentSummary {
	summary := catalogv1.ContentSummary{
		ContentID: item.ContentID,
		CreatorID: item.CreatorID,
		Title:     item.Title,
		CreatedAt: item.CreatedAt,
	}
	if price := item.PriceCents(); price != nil {
		summary.PriceCents = *price
	}
	return summary
}

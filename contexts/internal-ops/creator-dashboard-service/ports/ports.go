package ports

import (
	"context"

	billingv1 "creatorhub/contracts/gen/billing/v1"
	catalogv1 "creatorhub/contracts/gen/catalog/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
	requestsv1 "creatorhub/contracts/gen/requests/v1"
)

type AccountReader interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
}

// ContentReader is served by the catalog context.
type ContentReader interface {
	ListCreatorContentSummaries(ctx context.Context, creatorID string) ([]catalogv1.ContentSummary, error)
}

// PurchaseReader is served by billing.
type PurchaseReader interface {
	ListPurchasesForContent(ctx context.Context, contentIDs []string) ([]billingv1.Purchase, error)
}

// RequestReader is served by the custom-request context and returns newest first.
type RequestReader interface {
	ListCreatorRequests(ctx context.Context, creatorID string) ([]requestsv1.RequestSummary, error)
}

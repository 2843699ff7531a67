package ports

import (
	"context"
	"time"

	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"

	identityv1 "creatorhub/contracts/gen/identity/v1"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
	requestsv1 "creatorhub/contracts/gen/requests/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Repository interface {
	CreateRequest(ctx context.Context, request entities.Request) error
	GetRequest(ctx context.Context, requestID string) (entities.Request, error)
	SaveRequest(ctx context.Context, request entities.Request) error
	// ListPaidForConsumer and ListPaidForCreator return newest first.
	ListPaidForConsumer(ctx context.Context, consumerID string, limit int) ([]entities.Request, error)
	ListPaidForCreator(ctx context.Context, creatorID string, limit int) ([]entities.Request, error)
	ListOverduePending(ctx context.Context, now time.Time, limit int) ([]entities.Request, error)
	// ListRefundCandidates returns paid declined/expired requests whose refund
	// is pending or failed and has been attempted fewer than maxAttempts times.
	ListRefundCandidates(ctx context.Context, maxAttempts int, limit int) ([]entities.Request, error)
}

// CreatorReports is the read surface consumed by moderation and the dashboard.
type CreatorReports interface {
	CountDelivered(ctx context.Context, creatorID string) (int, error)
	ListCreatorRequests(ctx context.Context, creatorID string) ([]requestsv1.RequestSummary, error)
}

// AccountDirectory is served by the account context.
type AccountDirectory interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
	GetAccounts(ctx context.Context, userIDs []string) (map[string]identityv1.Account, error)
	SetStripeCustomerID(ctx context.Context, userID string, customerID string) error
}

type TextPolicy interface {
	ContainsBlocked(texts ...string) bool
	MentionsTopic(text string) bool
}

type PaymentGateway interface {
	Enabled() bool
	CreateCustomer(ctx context.Context, email string, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, req paymentsv1.CheckoutRequest) (paymentsv1.CheckoutSession, error)
	Refund(ctx context.Context, req paymentsv1.RefundRequest) (paymentsv1.Refund, error)
}

// ModerationRefresher is served by the moderation context.
type ModerationRefresher interface {
	RefreshCreatorStatus(ctx context.Context, creatorID string) error
}

package ports

import (
	"context"
	"time"

	"creatorhub/contexts/finance-core/billing-service/domain/entities"

	billingv1 "creatorhub/contracts/gen/billing/v1"
	catalogv1 "creatorhub/contracts/gen/catalog/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Repository interface {
	// UpsertPurchase keeps one row per (user, content); an empty payment
	// intent never overwrites a stored one.
	UpsertPurchase(ctx context.Context, purchase entities.Purchase) (entities.Purchase, error)
	PurchasedContentIDs(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error)
	ListPurchasesForContent(ctx context.Context, contentIDs []string) ([]billingv1.Purchase, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// EventDedup reserves processor event ids. Reserve reports false when the id
// was already taken within ttl.
type EventDedup interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// AccountDirectory is served by the account context.
type AccountDirectory interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
	FindAccountBySubscriptionID(ctx context.Context, subscriptionID string) (identityv1.Account, bool, error)
	ActivateAccessPass(ctx context.Context, userID string, expiresAt time.Time) error
	SetSubscription(ctx context.Context, userID string, state identityv1.SubscriptionState) error
	SetStripeCustomerID(ctx context.Context, userID string, customerID string) error
}

// ContentCatalog is served by the catalog context.
type ContentCatalog interface {
	GetContentSummary(ctx context.Context, contentID string) (catalogv1.ContentSummary, bool, error)
}

// RequestPayments is served by the custom request context. found is false
// when the request id is unknown.
type RequestPayments interface {
	MarkPaid(ctx context.Context, requestID string, paymentIntentID string) (found bool, err error)
}

type PaymentGateway interface {
	Enabled() bool
	CreateCustomer(ctx context.Context, email string, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, req paymentsv1.CheckoutRequest) (paymentsv1.CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (paymentsv1.Subscription, error)
	ParseWebhook(payload []byte, signature string) (paymentsv1.WebhookEvent, error)
}

type WebhookObserver interface {
	ObserveWebhook(eventType string, result string)
}

type Status struct {
	AccessPassActive       bool
	AccessPassExpiresAt    *time.Time
	SubscriptionActive     bool
	SubscriptionExpiresAt  *time.Time
	PassPriceCents         int64
	SubscriptionPriceCents int64
	MockMode               bool
}

type AccessGrant struct {
	Kind        entities.CheckoutKind
	ExpiresAt   time.Time
	AmountCents int64
	Currency    string
}

type CheckoutResult struct {
	Mock      bool   `json:"mock"`
	URL       string `json:"url,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type WebhookResult struct {
	EventID   string
	EventType string
	Duplicate bool
}

package v1

import (
	"errors"
	"time"
)

var (
	ErrGatewayDisabled       = errors.New("payment gateway is running in mock mode")
	ErrWebhookNotConfigured  = errors.New("webhook signing secret is not configured")
	ErrInvalidSignature      = errors.New("webhook signature verification failed")
	ErrUnsupportedEventShape = errors.New("webhook payload does not match event type")
)

const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"

	EventCheckoutSessionCompleted    = "checkout.session.completed"
	EventInvoicePaid                 = "invoice.paid"
	EventCustomerSubscriptionDeleted = "customer.subscription.deleted"

	CurrencyEUR = "eur"
)

// CheckoutRequest describes a hosted checkout session.
// Either PriceID or (AmountCents, Currency, ProductName) must be set.
type CheckoutRequest struct {
	Mode                 string
	CustomerID           string
	PriceID              string
	AmountCents          int64
	Currency             string
	ProductName          string
	SuccessURL           string
	CancelURL            string
	ClientReferenceID    string
	Metadata             map[string]string
	SubscriptionMetadata map[string]string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

// RefundRequest refunds a captured payment in full. Repeated calls with the
// same IdempotencyKey settle to a single refund at the processor.
type RefundRequest struct {
	PaymentIntentID string
	IdempotencyKey  string
}

type Refund struct {
	RefundID string
	Status   string
}

type Subscription struct {
	SubscriptionID   string
	CustomerID       string
	CurrentPeriodEnd time.Time
}

// WebhookEvent is the verified, decoded subset of a processor event.
type WebhookEvent struct {
	EventID      string
	EventType    string
	Checkout     *CompletedCheckout
	Invoice      *PaidInvoice
	Subscription *Subscription
}

type CompletedCheckout struct {
	SessionID         string
	ClientReferenceID string
	CustomerID        string
	PaymentIntentID   string
	SubscriptionID    string
	Metadata          map[string]string
}

type PaidInvoice struct {
	InvoiceID      string
	SubscriptionID string
}

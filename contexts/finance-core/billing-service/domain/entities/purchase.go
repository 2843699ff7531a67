package entities

import "time"

const CurrencyEUR = "EUR"

type CheckoutKind string

const (
	CheckoutPass         CheckoutKind = "pass"
	CheckoutSubscription CheckoutKind = "subscription"
	CheckoutContent      CheckoutKind = "content"
	CheckoutRequest      CheckoutKind = "request"
)

// Purchase is unique per user and content item.
type Purchase struct {
	PurchaseID         string
	UserID             string
	ContentID          string
	AmountCents        int64
	PlatformFeeCents   int64
	CreatorAmountCents int64
	PaymentIntentID    string
	Currency           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

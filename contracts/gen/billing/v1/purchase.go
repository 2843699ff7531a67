package v1

import "time"

// Purchase is a single-item unlock shared with reporting.
// This package is generated-contract-only and must stay backward compatible.
type Purchase struct {
	PurchaseID         string    `json:"purchase_id"`
	UserID             string    `json:"user_id"`
	ContentID          string    `json:"content_id"`
	AmountCents        int64     `json:"amount_cents"`
	PlatformFeeCents   int64     `json:"platform_fee_cents"`
	CreatorAmountCents int64     `json:"creator_amount_cents"`
	Currency           string    `json:"currency"`
	CreatedAt          time.Time `json:"created_at"`
}

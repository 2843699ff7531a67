package v1

import "time"

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusExpired   = "expired"
	StatusDelivered = "delivered"
	StatusRefunded  = "refunded"
)

// RequestSummary is the reporting view of a custom request.
// This package is generated-contract-only and must stay backward compatible.
type RequestSummary struct {
	RequestID          string    `json:"request_id"`
	ConsumerID         string    `json:"consumer_id"`
	CreatorID          string    `json:"creator_id"`
	Prompt             string    `json:"prompt"`
	PriceCents         int64     `json:"price_cents"`
	CreatorAmountCents int64     `json:"creator_amount_cents"`
	Status             string    `json:"status"`
	Paid               bool      `json:"paid"`
	CreatedAt          time.Time `json:"created_at"`
}

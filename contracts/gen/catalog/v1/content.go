package v1

import "time"

// ContentSummary is the priced view of a content item shared with billing and reporting.
// This package is generated-contract-only and must stay backward compatible.
type ContentSummary struct {
	ContentID  string    `json:"content_id"`
	CreatorID  string    `json:"creator_id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

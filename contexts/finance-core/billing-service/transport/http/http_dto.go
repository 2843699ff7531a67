package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	AccessPassActive       bool   `json:"accessPassActive"`
	AccessPassExpiresAt    string `json:"accessPassExpiresAt,omitempty"`
	SubscriptionActive     bool   `json:"subscriptionActive"`
	SubscriptionExpiresAt  string `json:"subscriptionExpiresAt,omitempty"`
	PassPriceCents         int64  `json:"passPriceCents"`
	SubscriptionPriceCents int64  `json:"subscriptionPriceCents"`
	MockMode               bool   `json:"mockMode"`
}

type AccessGrantResponse struct {
	Message     string `json:"message"`
	Kind        string `json:"kind"`
	Active      bool   `json:"active"`
	ExpiresAt   string `json:"expiresAt"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

type PurchaseRequest struct {
	ContentID string `json:"contentId"`
}

type PurchaseResponse struct {
	Message            string `json:"message"`
	PurchaseID         string `json:"purchaseId"`
	AmountCents        int64  `json:"amountCents"`
	PlatformFeeCents   int64  `json:"platformFeeCents"`
	CreatorAmountCents int64  `json:"creatorAmountCents"`
	Currency           string `json:"currency"`
}

type CheckoutResponse struct {
	Mock     bool   `json:"mock,omitempty"`
	Message  string `json:"message,omitempty"`
	URL      string `json:"url,omitempty"`
	Replayed bool   `json:"replayed,omitempty"`
}

type WebhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateRequestCheckout struct {
	CreatorID  string `json:"creatorId"`
	Prompt     string `json:"prompt"`
	PriceCents int64  `json:"priceCents"`
}

type CheckoutResponse struct {
	Mock      bool   `json:"mock,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	URL       string `json:"url,omitempty"`
}

type DeliverRequest struct {
	DeliveryURL  string `json:"deliveryUrl"`
	DeliveryNote string `json:"deliveryNote"`
}

type Party struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type RequestItem struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Prompt       string `json:"prompt"`
	PriceCents   int64  `json:"priceCents"`
	ExpiresAt    string `json:"expiresAt"`
	DeliveryURL  string `json:"deliveryUrl,omitempty"`
	DeliveryNote string `json:"deliveryNote,omitempty"`
	DeliveredAt  string `json:"deliveredAt,omitempty"`
	RefundStatus string `json:"refundStatus"`
	Consumer     Party  `json:"consumer"`
	Creator      Party  `json:"creator"`
}

type ListRequestsResponse struct {
	Items []RequestItem `json:"items"`
}

type RequestStatusResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	RefundStatus string `json:"refundStatus"`
	DeliveryURL  string `json:"deliveryUrl,omitempty"`
	DeliveredAt  string `json:"deliveredAt,omitempty"`
}

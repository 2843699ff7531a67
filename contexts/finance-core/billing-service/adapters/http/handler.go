package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"creatorhub/contexts/finance-core/billing-service/application"
	"creatorhub/contexts/finance-core/billing-service/ports"
	httptransport "creatorhub/contexts/finance-core/billing-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) StatusHandler(ctx context.Context, userID string) (httptransport.StatusResponse, error) {
	status, err := h.Service.Status(ctx, userID)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{
		AccessPassActive:       status.AccessPassActive,
		AccessPassExpiresAt:    formatTime(status.AccessPassExpiresAt),
		SubscriptionActive:     status.SubscriptionActive,
		SubscriptionExpiresAt:  formatTime(status.SubscriptionExpiresAt),
		PassPriceCents:         status.PassPriceCents,
		SubscriptionPriceCents: status.SubscriptionPriceCents,
		MockMode:               status.MockMode,
	}, nil
}

func (h Handler) ActivatePassHandler(ctx context.Context, userID string) (httptransport.AccessGrantResponse, error) {
	grant, err := h.Service.ActivatePass(ctx, userID)
	if err != nil {
		return httptransport.AccessGrantResponse{}, err
	}
	return toGrantResponse("Access pass activated.", grant), nil
}

func (h Handler) SubscribeHandler(ctx context.Context, userID string) (httptransport.AccessGrantResponse, error) {
	grant, err := h.Service.Subscribe(ctx, userID)
	if err != nil {
		return httptransport.AccessGrantResponse{}, err
	}
	return toGrantResponse("Subscription activated.", grant), nil
}

func (h Handler) PurchaseHandler(
	ctx context.Context,
	userID string,
	req httptransport.PurchaseRequest,
) (httptransport.PurchaseResponse, error) {
	purchase, err := h.Service.RecordPurchase(ctx, userID, req.ContentID)
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	return httptransport.PurchaseResponse{
		Message:            "Purchase recorded.",
		PurchaseID:         purchase.PurchaseID,
		AmountCents:        purchase.AmountCents,
		PlatformFeeCents:   purchase.PlatformFeeCents,
		CreatorAmountCents: purchase.CreatorAmountCents,
		Currency:           purchase.Currency,
	}, nil
}

func (h Handler) CheckoutPassHandler(ctx context.Context, userID string, idempotencyKey string) (httptransport.CheckoutResponse, error) {
	result, replayed, err := h.Service.CheckoutPass(ctx, userID, idempotencyKey)
	if err != nil {
		return httptransport.CheckoutResponse{}, err
	}
	return toCheckoutResponse(result, replayed, "Access pass activated (mock mode)."), nil
}

func (h Handler) CheckoutSubscriptionHandler(ctx context.Context, userID string, idempotencyKey string) (httptransport.CheckoutResponse, error) {
	result, replayed, err := h.Service.CheckoutSubscription(ctx, userID, idempotencyKey)
	if err != nil {
		return httptransport.CheckoutResponse{}, err
	}
	return toCheckoutResponse(result, replayed, "Subscription activated (mock mode)."), nil
}

func (h Handler) CheckoutContentHandler(
	ctx context.Context,
	userID string,
	idempotencyKey string,
	req httptransport.PurchaseRequest,
) (httptransport.CheckoutResponse, error) {
	result, replayed, err := h.Service.CheckoutContent(ctx, userID, req.ContentID, idempotencyKey)
	if err != nil {
		return httptransport.CheckoutResponse{}, err
	}
	return toCheckoutResponse(result, replayed, "Purchase simulated (mock mode)."), nil
}

func (h Handler) WebhookHandler(ctx context.Context, payload []byte, signature string) (httptransport.WebhookResponse, error) {
	result, err := h.Service.HandleWebhook(ctx, payload, signature)
	if err != nil {
		return httptransport.WebhookResponse{}, err
	}
	return httptransport.WebhookResponse{Received: true, Duplicate: result.Duplicate}, nil
}

func toGrantResponse(message string, grant ports.AccessGrant) httptransport.AccessGrantResponse {
	return httptransport.AccessGrantResponse{
		Message:     message,
		Kind:        string(grant.Kind),
		Active:      true,
		ExpiresAt:   grant.ExpiresAt.UTC().Format(time.RFC3339),
		AmountCents: grant.AmountCents,
		Currency:    grant.Currency,
	}
}

func toCheckoutResponse(result ports.CheckoutResult, replayed bool, mockMessage string) httptransport.CheckoutResponse {
	if result.Mock {
		return httptransport.CheckoutResponse{Mock: true, Message: mockMessage}
	}
	return httptransport.CheckoutResponse{URL: result.URL, Replayed: replayed}
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

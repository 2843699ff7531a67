package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/application/commands"
	"creatorhub/contexts/community-experience/custom-request-service/application/queries"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	httptransport "creatorhub/contexts/community-experience/custom-request-service/transport/http"
)

type Handler struct {
	ListRequests   queries.ListRequestsUseCase
	CreateCheckout commands.CreateCheckoutUseCase
	Respond        commands.RespondUseCase
	Logger         *slog.Logger
}

// ListRequestsHandler godoc
// @Summary List custom requests
// @Description Creators see paid requests addressed to them; consumers see the paid requests they sent.
// @Tags custom-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListRequestsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/requests [get]
func (h Handler) ListRequestsHandler(ctx context.Context, userID string) (httptransport.ListRequestsResponse, error) {
	result, err := h.ListRequests.Execute(ctx, queries.ListRequestsQuery{UserID: userID})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("list requests failed",
			"event", "http_list_requests_failed",
			"module", "community-experience/custom-request-service",
			"layer", "transport",
			"user_id", userID,
			"error", err.Error(),
		)
		return httptransport.ListRequestsResponse{}, err
	}
	items := make([]httptransport.RequestItem, 0, len(result.Items))
	for _, view := range result.Items {
		items = append(items, toRequestItem(view))
	}
	return httptransport.ListRequestsResponse{Items: items}, nil
}

// CreateCheckoutHandler godoc
// @Summary Open a custom request checkout
// @Tags custom-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body httptransport.CreateRequestCheckout true "Request"
// @Success 200 {object} httptransport.CheckoutResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/stripe/checkout/request [post]
func (h Handler) CreateCheckoutHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateRequestCheckout,
) (httptransport.CheckoutResponse, error) {
	result, err := h.CreateCheckout.Execute(ctx, commands.CreateCheckoutCommand{
		ConsumerID: userID,
		CreatorID:  req.CreatorID,
		Prompt:     req.Prompt,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		return httptransport.CheckoutResponse{}, err
	}
	if result.Mock {
		return httptransport.CheckoutResponse{
			Mock:      true,
			Message:   "Request created (mock mode).",
			RequestID: result.Request.RequestID,
		}, nil
	}
	return httptransport.CheckoutResponse{URL: result.URL, RequestID: result.Request.RequestID}, nil
}

// AcceptRequestHandler godoc
// @Summary Accept a custom request
// @Tags custom-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request id"
// @Success 200 {object} httptransport.RequestStatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/requests/{id}/accept [post]
func (h Handler) AcceptRequestHandler(ctx context.Context, userID string, requestID string) (httptransport.RequestStatusResponse, error) {
	request, err := h.Respond.Accept(ctx, commands.RespondCommand{CreatorID: userID, RequestID: requestID})
	if err != nil {
		return httptransport.RequestStatusResponse{}, err
	}
	return toStatusResponse(request), nil
}

// DeclineRequestHandler godoc
// @Summary Decline a custom request and refund it
// @Tags custom-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request id"
// @Success 200 {object} httptransport.RequestStatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/requests/{id}/decline [post]
func (h Handler) DeclineRequestHandler(ctx context.Context, userID string, requestID string) (httptransport.RequestStatusResponse, error) {
	request, err := h.Respond.Decline(ctx, commands.RespondCommand{CreatorID: userID, RequestID: requestID})
	if err != nil {
		return httptransport.RequestStatusResponse{}, err
	}
	return toStatusResponse(request), nil
}

// DeliverRequestHandler godoc
// @Summary Deliver an accepted custom request
// @Tags custom-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request id"
// @Param body body httptransport.DeliverRequest true "Delivery"
// @Success 200 {object} httptransport.RequestStatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/requests/{id}/deliver [post]
func (h Handler) DeliverRequestHandler(
	ctx context.Context,
	userID string,
	requestID string,
	req httptransport.DeliverRequest,
) (httptransport.RequestStatusResponse, error) {
	request, err := h.Respond.Deliver(ctx, commands.RespondCommand{
		CreatorID:    userID,
		RequestID:    requestID,
		DeliveryURL:  req.DeliveryURL,
		DeliveryNote: req.DeliveryNote,
	})
	if err != nil {
		return httptransport.RequestStatusResponse{}, err
	}
	return toStatusResponse(request), nil
}

func toRequestItem(view queries.RequestView) httptransport.RequestItem {
	request := view.Request
	return httptransport.RequestItem{
		ID:           request.RequestID,
		Status:       string(request.Status),
		Prompt:       request.Prompt,
		PriceCents:   request.PriceCents,
		ExpiresAt:    request.ExpiresAt.UTC().Format(time.RFC3339),
		DeliveryURL:  request.DeliveryURL,
		DeliveryNote: request.DeliveryNote,
		DeliveredAt:  formatTime(request.DeliveredAt),
		RefundStatus: string(request.RefundStatus),
		Consumer:     httptransport.Party{ID: view.Consumer.UserID, DisplayName: view.Consumer.DisplayName},
		Creator:      httptransport.Party{ID: view.Creator.UserID, DisplayName: view.Creator.DisplayName},
	}
}

func toStatusResponse(request entities.Request) httptransport.RequestStatusResponse {
	return httptransport.RequestStatusResponse{
		ID:           request.RequestID,
		Status:       string(request.Status),
		RefundStatus: string(request.RefundStatus),
		DeliveryURL:  request.DeliveryURL,
		DeliveredAt:  formatTime(request.DeliveredAt),
	}
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

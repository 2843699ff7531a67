package application

import (
	"context"
	"log/slog"
	"time"

	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	"creatorhub/contexts/community-experience/custom-request-service/domain/services"
	"creatorhub/contexts/community-experience/custom-request-service/ports"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
)

// Refunder runs the refund workflow for one request and persists the outcome.
// Processor failures are recorded on the request as RefundFailed and are not
// returned; only storage errors are.
type Refunder struct {
	Repo    ports.Repository
	Gateway ports.PaymentGateway
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (r Refunder) Process(ctx context.Context, request entities.Request) (entities.Request, error) {
	logger := ResolveLogger(r.Logger)
	now := r.now()

	switch services.DecideRefund(request, r.Gateway != nil && r.Gateway.Enabled()) {
	case services.RefundSkip:
		return request, nil
	case services.RefundDefer:
		if request.RefundStatus == entities.RefundPending {
			return request, nil
		}
		request.MarkRefundPending(now)
		if err := r.Repo.SaveRequest(ctx, request); err != nil {
			return request, err
		}
		logger.Info("refund deferred",
			"event", "custom_request_refund_deferred",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"request_id", request.RequestID,
			"has_payment_intent", request.PaymentIntentID != "",
		)
		return request, nil
	}

	request.RefundAttempts++
	refund, err := r.Gateway.Refund(ctx, paymentsv1.RefundRequest{
		PaymentIntentID: request.PaymentIntentID,
		IdempotencyKey:  RefundIdempotencyKey(request.RequestID),
	})
	if err != nil {
		request.MarkRefundFailed(now)
		logger.Warn("refund attempt failed",
			"event", "custom_request_refund_failed",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"request_id", request.RequestID,
			"attempt", request.RefundAttempts,
			"error", err.Error(),
		)
	} else {
		request.MarkRefunded(now)
		logger.Info("refund processed",
			"event", "custom_request_refund_processed",
			"module", "community-experience/custom-request-service",
			"layer", "application",
			"request_id", request.RequestID,
			"refund_id", refund.RefundID,
		)
	}
	if err := r.Repo.SaveRequest(ctx, request); err != nil {
		return request, err
	}
	return request, nil
}

// RefundIdempotencyKey is stable per request so retries after a lost
// processor response cannot refund twice.
func RefundIdempotencyKey(requestID string) string {
	return "request-refund-" + requestID
}

func (r Refunder) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}

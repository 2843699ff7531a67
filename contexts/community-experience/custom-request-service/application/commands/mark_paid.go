package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	"creatorhub/contexts/community-experience/custom-request-service/ports"
)

type MarkPaidCommand struct {
	RequestID       string
	PaymentIntentID string
}

type MarkPaidUseCase struct {
	Requests ports.Repository
	Refunds  application.Refunder
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Execute reports found=false for unknown request ids so webhook replays of
// deleted requests are acknowledged instead of retried. A payment that lands
// after the request was declined or expired is refunded right away.
func (u MarkPaidUseCase) Execute(ctx context.Context, cmd MarkPaidCommand) (bool, error) {
	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return false, nil
	}
	request, err := u.Requests.GetRequest(ctx, requestID)
	if errors.Is(err, domainerrors.ErrRequestNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}
	request.MarkPaid(cmd.PaymentIntentID, now)
	if err := u.Requests.SaveRequest(ctx, request); err != nil {
		return true, err
	}
	application.ResolveLogger(u.Logger).Info("custom request paid",
		"event", "custom_request_paid",
		"module", "community-experience/custom-request-service",
		"layer", "application",
		"request_id", request.RequestID,
		"payment_intent_id", request.PaymentIntentID,
		"status", string(request.Status),
	)
	if request.AwaitsRefund() {
		if _, err := u.Refunds.Process(ctx, request); err != nil {
			return true, err
		}
	}
	return true, nil
}

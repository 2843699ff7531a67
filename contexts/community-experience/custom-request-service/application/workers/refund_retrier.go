package workers

import (
	"context"
	"log/slog"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	"creatorhub/contexts/community-experience/custom-request-service/ports"
)

const DefaultMaxRefundAttempts = 5

// RefundRetrier retries pending or failed refunds of declined and expired
// requests until MaxAttempts processor calls have been made.
type RefundRetrier struct {
	Requests    ports.Repository
	Refunds     application.Refunder
	MaxAttempts int
	BatchSize   int
	Logger      *slog.Logger
}

func (r RefundRetrier) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	if r.Refunds.Gateway == nil || !r.Refunds.Gateway.Enabled() {
		return nil
	}
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRefundAttempts
	}
	limit := r.BatchSize
	if limit <= 0 {
		limit = defaultBatchSize
	}

	candidates, err := r.Requests.ListRefundCandidates(ctx, maxAttempts, limit)
	if err != nil {
		logger.Error("refund retry sweep failed",
			"event", "custom_request_refund_retry_failed",
			"module", "community-experience/custom-request-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	processed, failed := 0, 0
	for _, request := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := r.Refunds.Process(ctx, request)
		if err != nil {
			return err
		}
		switch result.RefundStatus {
		case entities.RefundProcessed:
			processed++
		case entities.RefundFailed:
			failed++
		}
	}
	if len(candidates) > 0 {
		logger.Info("refund retry sweep completed",
			"event", "custom_request_refund_retry_completed",
			"module", "community-experience/custom-request-service",
			"layer", "worker",
			"candidate_count", len(candidates),
			"processed_count", processed,
			"failed_count", failed,
		)
	}
	return nil
}

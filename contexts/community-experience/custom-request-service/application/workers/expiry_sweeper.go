package workers

import (
	"context"
	"log/slog"
	"time"

	application "creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/ports"
)

const defaultBatchSize = 100

// ExpirySweeper expires pending requests that crossed expires_at and starts
// their refunds.
type ExpirySweeper struct {
	Requests  ports.Repository
	Refunds   application.Refunder
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (s ExpirySweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	limit := s.BatchSize
	if limit <= 0 {
		limit = defaultBatchSize
	}

	overdue, err := s.Requests.ListOverduePending(ctx, now, limit)
	if err != nil {
		logger.Error("request expiry sweep failed",
			"event", "custom_request_expiry_failed",
			"module", "community-experience/custom-request-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	expired := 0
	for _, request := range overdue {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !request.Expire(now) {
			continue
		}
		if err := s.Requests.SaveRequest(ctx, request); err != nil {
			return err
		}
		if _, err := s.Refunds.Process(ctx, request); err != nil {
			return err
		}
		expired++
	}
	if expired > 0 {
		logger.Info("request expiry sweep completed",
			"event", "custom_request_expiry_completed",
			"module", "community-experience/custom-request-service",
			"layer", "worker",
			"expired_count", expired,
		)
	}
	return nil
}

package workers

import (
	"context"
	"log/slog"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/application"
	"creatorhub/contexts/moderation-safety/moderation-service/ports"
)

// SuspensionReconciler re-evaluates suspended creators whose suspension
// window has ended so the flag does not outlive it.
type SuspensionReconciler struct {
	Service application.Service
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (r SuspensionReconciler) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	creators, err := r.Service.Accounts.ListSuspendedCreators(ctx, now)
	if err != nil {
		logger.Error("suspension sweep failed",
			"event", "moderation_suspension_sweep_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	for _, creator := range creators {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Service.RefreshCreatorStatus(ctx, creator.UserID); err != nil {
			logger.Error("creator refresh failed",
				"event", "moderation_suspension_refresh_failed",
				"module", "moderation-safety/moderation-service",
				"layer", "worker",
				"creator_id", creator.UserID,
				"error", err.Error(),
			)
			return err
		}
	}
	if len(creators) > 0 {
		logger.Info("suspension sweep completed",
			"event", "moderation_suspension_sweep_completed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"refreshed_count", len(creators),
		)
	}
	return nil
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"creatorhub/internal/platform/observability"

	"github.com/robfig/cron/v3"
)

// job is one periodic sweep.
type job struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

// scheduler runs jobs on their cron schedules. Overlapping runs of the same
// job are skipped.
type scheduler struct {
	cron    *cron.Cron
	metrics *observability.Metrics
	logger  *slog.Logger
}

func newScheduler(ctx context.Context, jobs []job, metrics *observability.Metrics, logger *slog.Logger) (*scheduler, error) {
	s := &scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		metrics: metrics,
		logger:  logger,
	}
	for _, j := range jobs {
		j := j
		if _, err := s.cron.AddFunc(j.schedule, func() { s.runJob(ctx, j) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", j.name, j.schedule, err)
		}
		logger.Info("job scheduled",
			"event", "worker_job_scheduled",
			"module", "internal/app/bootstrap",
			"layer", "worker",
			"job", j.name,
			"schedule", j.schedule,
		)
	}
	return s, nil
}

func (s *scheduler) runJob(ctx context.Context, j job) {
	if ctx.Err() != nil {
		return
	}
	started := time.Now()
	err := j.run(ctx)
	s.metrics.ObserveWorkerRun(j.name, time.Since(started), err)
	if err != nil {
		s.logger.Error("job failed",
			"event", "worker_job_failed",
			"module", "internal/app/bootstrap",
			"layer", "worker",
			"job", j.name,
			"error", err.Error(),
		)
	}
}

func (s *scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to return.
func (s *scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (c *container) jobs() []job {
	requests := c.modules.Requests
	jobs := []job{
		{name: "request_expiry_sweep", schedule: c.cfg.RequestSweepSchedule, run: requests.ExpirySweeper.RunOnce},
		{name: "creator_suspension_reconcile", schedule: c.cfg.ModerationSweepSchedule, run: c.modules.Moderation.Reconciler.RunOnce},
	}
	// In mock mode refunds stay pending until a live gateway exists, so there
	// is nothing to retry.
	if !c.cfg.StripeMockMode() {
		jobs = append(jobs, job{name: "request_refund_retry", schedule: c.cfg.RefundRetrySchedule, run: requests.RefundRetrier.RunOnce})
	}
	return jobs
}

package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"creatorhub/internal/platform/config"
	"creatorhub/internal/platform/httpserver"
	"creatorhub/internal/platform/observability"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	container *container
	server    *httpserver.Server
	// scheduler is set when the API owns the sweeps (memory backend).
	scheduler *scheduler
	logger    *slog.Logger
}

type WorkerApp struct {
	container *container
	scheduler *scheduler
	logger    *slog.Logger
}

func BuildAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	logger = logger.With("service", cfg.ServiceName, "process", "api")
	metrics := observability.NewMetrics(nil)

	c, err := buildContainer(ctx, cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	var apiLimiter, authLimiter httpserver.Limiter
	if c.storage.counter != nil {
		apiLimiter = httpserver.NewWindowLimiter(c.storage.counter, "api", cfg.RateLimitMax, cfg.RateLimitWindow)
		authLimiter = httpserver.NewWindowLimiter(c.storage.counter, "auth", cfg.RateLimitAuthMax, cfg.RateLimitWindow)
	} else {
		apiLimiter = httpserver.NewLocalLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		authLimiter = httpserver.NewLocalLimiter(cfg.RateLimitAuthMax, cfg.RateLimitWindow)
	}

	server := httpserver.New(c.modules, c.tokens, httpserver.Options{
		Addr:           normalizeAddr(cfg.HTTPPort),
		AllowedOrigins: cfg.AllowedOrigins(),
		TrustProxy:     cfg.TrustProxy,
		UploadDir:      c.uploads,
		APILimiter:     apiLimiter,
		AuthLimiter:    authLimiter,
		Metrics:        metrics,
		Logger:         logger,
	})

	app := &APIApp{
		container: c,
		server:    server,
		logger:    logger,
	}
	if cfg.StoreBackend != "postgres" {
		app.scheduler, err = newScheduler(ctx, c.jobs(), metrics, logger)
		if err != nil {
			_ = c.storage.Close()
			return nil, err
		}
	}
	return app, nil
}

func BuildWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	logger = logger.With("service", cfg.ServiceName, "process", "worker")
	metrics := observability.NewMetrics(nil)

	c, err := buildContainer(ctx, cfg, metrics, logger)
	if err != nil {
		return nil, err
	}
	sched, err := newScheduler(ctx, c.jobs(), metrics, logger)
	if err != nil {
		_ = c.storage.Close()
		return nil, err
	}
	return &WorkerApp{
		container: c,
		scheduler: sched,
		logger:    logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if err := a.container.modules.Chat.Hub.Run(ctx, a.container.bus); err != nil {
		return err
	}
	if a.scheduler != nil {
		a.scheduler.Start()
		defer a.scheduler.Stop()
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"store_backend", a.container.cfg.StoreBackend,
		"payments_mock_mode", a.container.cfg.StripeMockMode(),
	)
	return a.server.Start(ctx)
}

func (a *APIApp) Close() error {
	return a.container.storage.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.scheduler.Start()
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"store_backend", w.container.cfg.StoreBackend,
	)
	<-ctx.Done()
	w.scheduler.Stop()
	w.logger.Info("worker app stopped",
		"event", "bootstrap_worker_stopped",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return nil
}

func (w *WorkerApp) Close() error {
	return w.container.storage.Close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

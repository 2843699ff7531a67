package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"creatorhub/internal/app/bootstrap"
	"creatorhub/internal/platform/config"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Run the request expiry, refund retry and suspension sweeps on their schedules.
func main() {
	if err := run(); err != nil {
		slog.Error("worker stopped with error", "event", "worker_exit", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("worker shutdown close failed", "event", "bootstrap_worker_close_failed", "error", err.Error())
		}
	}()
	return app.Run(ctx)
}

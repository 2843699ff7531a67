package application

import "log/slog"

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ResolveLogger is exported for adapters of this context.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	return resolveLogger(logger)
}

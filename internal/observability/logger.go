package observability

import (
	"log/slog"
	"os"
)

const serviceName = "credit-risk"

func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if env == "prod" || env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		if env == "local" || env == "dev" {
			opts.Level = slog.LevelDebug
		}
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", serviceName, "env", env)
}

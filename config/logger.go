package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger for the process and makes it the default.
func NewLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

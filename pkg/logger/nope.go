package logger

import (
	"io"
	"log/slog"
)

// NewNope creates a logger that discards everything.
// Transports use it when no logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

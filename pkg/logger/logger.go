package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON logger on stderr at info level with optional context extractors.
// Stderr keeps stdout free for command output.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stderr, slog.LevelInfo, extractors...)
}

// NewWithWriter creates a JSON logger writing to w at the given minimum level.
func NewWithWriter(w io.Writer, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

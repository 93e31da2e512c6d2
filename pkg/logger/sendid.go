package logger

import (
	"context"
	"log/slog"
)

type sendIDKey struct{}

// WithSendID stores a per-send correlation id in the context.
func WithSendID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sendIDKey{}, id)
}

// SendIDFromContext returns the correlation id stored by WithSendID.
func SendIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sendIDKey{}).(string)
	return id, ok && id != ""
}

// SendIDExtractor adds "send_id" to every record logged with a context
// that carries one.
func SendIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := SendIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("send_id", id), true
	}
}

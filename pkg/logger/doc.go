// Package logger provides structured slog logging with context extraction
// and optional Sentry reporting.
//
// # Usage
//
//	log := logger.New(logger.SendIDExtractor())
//
//	transport, _ := azure.New(cfg, azure.WithLogger(log))
//
// Transports tag each send with a correlation id via WithSendID;
// SendIDExtractor copies it into every record logged with that context:
//
//	{"level":"WARN","msg":"email not sent","transport":"azure+api://...","send_id":"9b2f..."}
//
// # Sentry
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, os.Stderr, slog.LevelInfo, logger.SendIDExtractor())
//	defer logger.Flush(2 * time.Second)
//
// Errors become Sentry issues; warnings are stored as logs. An empty DSN
// falls back to local output only.
package logger

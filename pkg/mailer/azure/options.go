package azure

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/acsmail/pkg/logger"
)

// HTTPClient performs a single HTTP round trip.
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Transport or a Factory.
type Option func(*options)

type options struct {
	httpClient        HTTPClient
	logger            *slog.Logger
	now               func() time.Time
	defaultAPIVersion string
}

func defaultOptions() *options {
	return &options{
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		logger:            logger.NewNope(),
		now:               time.Now,
		defaultAPIVersion: DefaultAPIVersion,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithHTTPClient sets the client used for API calls.
// Timeouts and connection pooling are the client's responsibility.
// Default: *http.Client with a 30 second timeout.
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithLogger sets the logger that receives send outcomes.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source for the x-ms-date header.
// Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDefaultAPIVersion sets the API version used when the Config or
// DSN does not name one.
// Default: DefaultAPIVersion.
func WithDefaultAPIVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.defaultAPIVersion = v
		}
	}
}

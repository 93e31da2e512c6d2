package azure

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/acsmail/pkg/mailer"
	"github.com/dmitrymomot/acsmail/pkg/mailer/dsn"
)

// Factory creates Transports from connection descriptors such as
// "azure+api://:KEY@my-resource.communication.azure.com?api-version=2023-03-31".
// It keeps no state between calls.
type Factory struct {
	opts []Option
}

// NewFactory creates a Factory. The options are applied to every
// Transport it creates; WithDefaultAPIVersion sets the version used when
// a descriptor has no "api-version" option.
func NewFactory(opts ...Option) *Factory {
	return &Factory{opts: opts}
}

// Schemes returns the supported DSN schemes.
func (f *Factory) Schemes() []string {
	return []string{SchemeBasic, SchemeAPI}
}

// Supports reports whether the descriptor's scheme is served by this factory.
func (f *Factory) Supports(d dsn.DSN) bool {
	return slices.Contains(f.Schemes(), d.Scheme)
}

// Create builds a Transport from the descriptor: the host (with port, if
// any) is the endpoint and the password is the access key.
// Returns *mailer.UnsupportedSchemeError for foreign schemes and
// mailer.ErrIncompleteConfig when host or password is missing.
func (f *Factory) Create(d dsn.DSN) (*Transport, error) {
	if !f.Supports(d) {
		return nil, &mailer.UnsupportedSchemeError{
			Scheme:    d.Scheme,
			Provider:  ProviderName,
			Supported: f.Schemes(),
		}
	}

	endpoint := d.HostPort()
	if endpoint == "" || d.Password == "" {
		return nil, fmt.Errorf("%w: %s requires a host and a password", mailer.ErrIncompleteConfig, d.Scheme)
	}

	return New(Config{
		Endpoint:   endpoint,
		Key:        d.Password,
		APIVersion: d.Option("api-version"),
	}, f.opts...)
}

// CreateFromString parses raw with dsn.Parse and calls Create.
func (f *Factory) CreateFromString(raw string) (*Transport, error) {
	d, err := dsn.Parse(raw)
	if err != nil {
		return nil, err
	}
	return f.Create(d)
}

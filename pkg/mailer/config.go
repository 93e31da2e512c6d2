package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// DefaultFrom is used when an email has no From address.
	// Accepts "Name <email>" or a bare address.
	DefaultFrom string `env:"MAILER_FROM"`
}

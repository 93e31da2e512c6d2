package azure

// DefaultAPIVersion is the Email REST API version used when neither the
// Config, the DSN "api-version" option nor WithDefaultAPIVersion sets one.
// 2023-03-31 is the first GA version; its 202 response carries the
// operation id in the body.
const DefaultAPIVersion = "2023-03-31"

// DSN schemes served by Factory.
const (
	SchemeBasic = "azure"
	SchemeAPI   = "azure+api"
)

// ProviderName identifies the transport in errors and diagnostics.
const ProviderName = "azure"

// Config holds Azure Communication Services email configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Endpoint is the resource host, e.g. "my-resource.communication.azure.com".
	// A leading "https://" is tolerated.
	Endpoint string `env:"AZURE_MAILER_ENDPOINT"`
	// Key is the base64-encoded resource access key.
	Key string `env:"AZURE_MAILER_KEY"`
	// APIVersion overrides the default API version.
	APIVersion string `env:"AZURE_MAILER_API_VERSION"`
}

// Package azure sends email through the Azure Communication Services
// Email REST API.
//
// Every request is authenticated with an HMAC-SHA256 signature over
//
//	POST\n/emails:send?api-version=<version>\n<x-ms-date>;<host>;<x-ms-content-sha256>
//
// keyed with the base64-decoded resource access key. The content hash is
// computed over the exact JSON bytes that are sent.
//
// # Usage
//
//	factory := azure.NewFactory(
//		azure.WithLogger(log),
//		azure.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
//	)
//
//	transport, err := factory.CreateFromString(os.Getenv("MAILER_DSN"))
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(transport, mailer.Config{DefaultFrom: "DoNotReply@example.com"})
//	sent, err := m.Send(ctx, email)
//
// Key characters that are not URL-safe ("/", "+", "=") must be
// percent-encoded in the descriptor.
//
// # Errors
//
//   - mailer.ErrUnsupportedScheme: descriptor scheme is neither "azure" nor "azure+api"
//   - mailer.ErrIncompleteConfig: endpoint or key missing
//   - ErrInvalidKey: key is not base64
//   - ErrConnectionFailed: no HTTP status was obtained
//   - ErrSendRejected: status other than 202; inspect *SendRejectedError
//   - ErrDecodeFailed: 202 response without a usable id
//
// Send never retries.
package azure

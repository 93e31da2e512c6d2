// Package mailer provides a provider-neutral email model and a high-level
// client that validates messages before handing them to a transport.
//
// # Architecture
//
//   - Sender: interface that transports implement (see package azure)
//   - Mailer: fills defaults, validates and delivers through a Sender
//   - Compose: builds an Email from Markdown with YAML frontmatter
//
// # Usage
//
//	import (
//		"context"
//		"os"
//
//		"github.com/dmitrymomot/acsmail/pkg/mailer"
//		"github.com/dmitrymomot/acsmail/pkg/mailer/azure"
//	)
//
//	func main() {
//		transport, err := azure.NewFactory().CreateFromString(os.Getenv("MAILER_DSN"))
//		if err != nil {
//			panic(err)
//		}
//
//		m := mailer.New(transport, mailer.Config{DefaultFrom: "Team <team@example.com>"})
//
//		sent, err := m.Send(context.Background(), &mailer.Email{
//			To:      []mailer.Address{mailer.NewAddress("user@example.com", "")},
//			Subject: "Welcome",
//			HTML:    "<p>Hello!</p>",
//		})
//		if err != nil {
//			panic(err)
//		}
//		println(sent.MessageID)
//	}
//
// When Text is empty it is derived from HTML with PlainText.
//
// # Envelopes
//
// Send delivers to every To, CC and BCC address. SendWithEnvelope delivers
// to an explicit Envelope instead; message headers are left untouched.
//
// # Message files
//
// Compose reads a Markdown body with optional frontmatter:
//
//	---
//	subject: Welcome {{.Name}}!
//	to: ["Alice <alice@example.com>"]
//	---
//
//	Hello {{.Name}}, welcome aboard.
//
//	[!action|Get Started]({{.URL}})
//
// Subject and body are Go text templates. Lines of the form
// [!action|Label](URL) render as button-styled links.
//
// # Errors
//
//   - ErrNoRecipient: no To, CC or BCC address
//   - ErrNoSender: neither the email nor Config provides a sender
//   - ErrNoSubject: no subject provided
//   - ErrNoContent: neither HTML nor text content provided
//   - ErrInvalidAddress: an address could not be parsed
//   - ErrRenderFailed: template or Markdown rendering failed
//   - ErrSendFailed: the transport failed; joined with the transport error
//   - ErrInvalidFrontmatter: invalid YAML frontmatter
//   - ErrUnsupportedScheme: a factory got a DSN scheme it does not serve
//   - ErrIncompleteConfig: required transport settings are missing
package mailer

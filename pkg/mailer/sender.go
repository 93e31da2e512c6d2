package mailer

import "context"

// Sender defines the minimal interface that email transports must implement.
// It accepts a fully-prepared Email together with its delivery Envelope.
type Sender interface {
	// Send delivers an email message.
	// Returns the provider-assigned message ID on success.
	Send(ctx context.Context, email *Email, envelope *Envelope) (*SentMessage, error)
}

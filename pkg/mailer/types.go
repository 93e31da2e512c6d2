package mailer

import (
	"fmt"
	"net/mail"
	"strings"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Email string // Mailbox address (e.g., "john@example.com")
	Name  string // Optional display name
}

// NewAddress creates an address from an email and an optional display name.
func NewAddress(email, name string) Address {
	return Address{Email: email, Name: name}
}

// ParseAddress parses an RFC 5322 address such as "John Doe <john@example.com>".
func ParseAddress(s string) (Address, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	return Address{Email: parsed.Address, Name: parsed.Name}, nil
}

// ParseAddressList parses every entry with ParseAddress.
// Returns nil for an empty input.
func ParseAddressList(list []string) ([]Address, error) {
	if len(list) == 0 {
		return nil, nil
	}
	result := make([]Address, 0, len(list))
	for _, s := range list {
		addr, err := ParseAddress(s)
		if err != nil {
			return nil, err
		}
		result = append(result, addr)
	}
	return result, nil
}

// String formats the address in RFC 5322 form.
// Returns "Name <email>" if name is provided, otherwise just email.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// IsZero reports whether the address has no mailbox.
func (a Address) IsZero() bool {
	return a.Email == ""
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Headers     map[string]string // Custom headers
	Subject     string            // Email subject
	HTML        string            // HTML body content
	Text        string            // Plain text alternative
	From        Address           // Displayed sender; falls back to Config.DefaultFrom
	ReplyTo     []Address         // Reply-to addresses
	To          []Address         // Recipients
	CC          []Address         // Carbon copy recipients
	BCC         []Address         // Blind carbon copy recipients
	Attachments []Attachment      // File attachments
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	Content     []byte // Raw file content
}

// Envelope holds the addressing used for delivery,
// which may differ from the From/To shown in the message.
type Envelope struct {
	Sender     Address
	Recipients []Address
}

// EnvelopeFrom derives a delivery envelope from the message headers:
// the sender is From and the recipients are To, CC and BCC in that order.
func EnvelopeFrom(email *Email) *Envelope {
	recipients := make([]Address, 0, len(email.To)+len(email.CC)+len(email.BCC))
	recipients = append(recipients, email.To...)
	recipients = append(recipients, email.CC...)
	recipients = append(recipients, email.BCC...)
	return &Envelope{
		Sender:     email.From,
		Recipients: recipients,
	}
}

// SentMessage is the result of a successful delivery.
type SentMessage struct {
	Envelope  *Envelope
	MessageID string // Provider-assigned message identifier
}

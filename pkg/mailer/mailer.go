package mailer

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Mailer provides high-level email sending on top of a Sender.
type Mailer struct {
	sender      Sender
	defaultFrom Address
	fromErr     error
}

// New creates a new Mailer with the given sender.
// An unparsable Config.DefaultFrom is reported by the first Send
// that needs it.
func New(sender Sender, cfg Config) *Mailer {
	m := &Mailer{
		sender: sender,
	}
	if cfg.DefaultFrom != "" {
		m.defaultFrom, m.fromErr = ParseAddress(cfg.DefaultFrom)
	}
	return m
}

// Send validates the email, fills in defaults and delivers it with an
// envelope derived from the message headers.
func (m *Mailer) Send(ctx context.Context, email *Email) (*SentMessage, error) {
	if err := m.prepare(email); err != nil {
		return nil, err
	}
	return m.deliver(ctx, email, EnvelopeFrom(email))
}

// SendWithEnvelope is like Send but delivers to an explicit envelope.
// The envelope sender and recipients override the message headers for
// delivery purposes only.
func (m *Mailer) SendWithEnvelope(ctx context.Context, email *Email, envelope *Envelope) (*SentMessage, error) {
	if envelope == nil {
		return m.Send(ctx, email)
	}
	if err := m.prepare(email); err != nil {
		return nil, err
	}
	if envelope.Sender.IsZero() {
		return nil, ErrNoSender
	}
	if len(envelope.Recipients) == 0 {
		return nil, ErrNoRecipient
	}
	return m.deliver(ctx, email, envelope)
}

func (m *Mailer) deliver(ctx context.Context, email *Email, envelope *Envelope) (*SentMessage, error) {
	sent, err := m.sender.Send(ctx, email, envelope)
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	return sent, nil
}

func (m *Mailer) prepare(email *Email) error {
	if email.From.IsZero() {
		if m.fromErr != nil {
			return m.fromErr
		}
		email.From = m.defaultFrom
	}
	if email.From.IsZero() {
		return ErrNoSender
	}
	if len(email.To)+len(email.CC)+len(email.BCC) == 0 {
		return ErrNoRecipient
	}
	if email.Subject == "" {
		return ErrNoSubject
	}
	if email.HTML == "" && email.Text == "" {
		return ErrNoContent
	}
	if email.Text == "" {
		email.Text = PlainText(email.HTML)
	}
	return nil
}

var (
	strictPolicy     *bluemonday.Policy
	strictPolicyOnce sync.Once
)

// PlainText strips all markup from an HTML body and collapses whitespace,
// producing a text alternative for clients that do not render HTML.
func PlainText(htmlBody string) string {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})

	// Keep block boundaries as line breaks before the tags disappear.
	replacer := strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "</p>\n\n", "</h1>", "</h1>\n\n", "</h2>", "</h2>\n\n",
		"</h3>", "</h3>\n\n", "</li>", "</li>\n", "</div>", "</div>\n",
	)
	stripped := html.UnescapeString(strictPolicy.Sanitize(replacer.Replace(htmlBody)))

	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

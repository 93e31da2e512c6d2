package azure

import (
	"encoding/base64"
	"strings"

	"github.com/dmitrymomot/acsmail/pkg/mailer"
)

type payload struct {
	Headers                        map[string]string `json:"headers,omitempty"`
	Content                        content           `json:"content"`
	Recipients                     recipients        `json:"recipients"`
	SenderAddress                  string            `json:"senderAddress"`
	ReplyTo                        []address         `json:"replyTo,omitempty"`
	Attachments                    []attachment      `json:"attachments,omitempty"`
	UserEngagementTrackingDisabled bool              `json:"userEngagementTrackingDisabled"`
}

type content struct {
	HTML      string `json:"html"`
	PlainText string `json:"plainText"`
	Subject   string `json:"subject"`
}

type recipients struct {
	To  []address `json:"to"`
	CC  []address `json:"cc"`
	BCC []address `json:"bcc"`
}

type address struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName,omitempty"`
}

type attachment struct {
	Name            string `json:"name"`
	ContentType     string `json:"contentType"`
	ContentInBase64 string `json:"contentInBase64"`
}

// buildPayload maps a message and its envelope to the send-email request body.
// "to" holds the envelope recipients that are not already listed in CC or BCC.
func buildPayload(email *mailer.Email, envelope *mailer.Envelope) payload {
	copied := make(map[string]struct{}, len(email.CC)+len(email.BCC))
	for _, a := range email.CC {
		copied[strings.ToLower(a.Email)] = struct{}{}
	}
	for _, a := range email.BCC {
		copied[strings.ToLower(a.Email)] = struct{}{}
	}

	to := make([]mailer.Address, 0, len(envelope.Recipients))
	for _, a := range envelope.Recipients {
		if _, ok := copied[strings.ToLower(a.Email)]; !ok {
			to = append(to, a)
		}
	}

	p := payload{
		Content: content{
			HTML:      email.HTML,
			PlainText: email.Text,
			Subject:   email.Subject,
		},
		Recipients: recipients{
			To:  addresses(to),
			CC:  addresses(email.CC),
			BCC: addresses(email.BCC),
		},
		SenderAddress:                  envelope.Sender.Email,
		Headers:                        email.Headers,
		UserEngagementTrackingDisabled: true,
	}
	if len(email.ReplyTo) > 0 {
		p.ReplyTo = addresses(email.ReplyTo)
	}
	if len(email.Attachments) > 0 {
		p.Attachments = make([]attachment, len(email.Attachments))
		for i, a := range email.Attachments {
			p.Attachments[i] = attachment{
				Name:            a.Filename,
				ContentType:     a.ContentType,
				ContentInBase64: base64.StdEncoding.EncodeToString(a.Content),
			}
		}
	}
	return p
}

// addresses never returns nil so empty lists encode as [].
func addresses(list []mailer.Address) []address {
	result := make([]address, len(list))
	for i, a := range list {
		result[i] = address{Address: a.Email, DisplayName: a.Name}
	}
	return result
}

package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/acsmail/pkg/logger"
	"github.com/dmitrymomot/acsmail/pkg/mailer"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

// Transport implements mailer.Sender using the Azure Communication
// Services Email REST API with HMAC-SHA256 request signing.
// It is safe for concurrent use if its HTTPClient is.
type Transport struct {
	client     HTTPClient
	logger     *slog.Logger
	now        func() time.Time
	keyErr     error
	endpoint   string
	apiVersion string
	key        []byte
}

var _ mailer.Sender = (*Transport)(nil)

// New creates a Transport.
// Returns mailer.ErrIncompleteConfig if Endpoint or Key is empty.
// A key that is not valid base64 is reported by Send as ErrInvalidKey.
func New(cfg Config, opts ...Option) (*Transport, error) {
	if cfg.Endpoint == "" || cfg.Key == "" {
		return nil, fmt.Errorf("%w: azure transport requires endpoint and key", mailer.ErrIncompleteConfig)
	}

	o := applyOptions(opts)

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = o.defaultAPIVersion
	}

	t := &Transport{
		client:     o.httpClient,
		logger:     o.logger,
		now:        o.now,
		endpoint:   cfg.Endpoint,
		apiVersion: apiVersion,
	}
	t.key, t.keyErr = decodeKey(cfg.Key)
	return t, nil
}

// Endpoint returns the configured resource endpoint.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// APIVersion returns the API version sent with every request.
func (t *Transport) APIVersion() string {
	return t.apiVersion
}

// String identifies the transport for diagnostics. It never includes the key.
func (t *Transport) String() string {
	return SchemeAPI + "://" + t.endpoint
}

// Send implements mailer.Sender. It performs exactly one POST to the
// send-email endpoint and returns the operation id as the message ID.
// A nil envelope is derived from the message headers.
func (t *Transport) Send(ctx context.Context, email *mailer.Email, envelope *mailer.Envelope) (*mailer.SentMessage, error) {
	if t.keyErr != nil {
		return nil, t.keyErr
	}
	if envelope == nil {
		envelope = mailer.EnvelopeFrom(email)
	}

	ctx = logger.WithSendID(ctx, uuid.NewString())
	log := t.logger.With(slog.String("transport", t.String()))

	body, err := json.Marshal(buildPayload(email, envelope))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	messageID, err := t.post(ctx, body)
	if err != nil {
		log.WarnContext(ctx, "email not sent",
			slog.String("subject", email.Subject),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	log.DebugContext(ctx, "email sent",
		slog.String("message_id", messageID),
		slog.Int("recipients", len(envelope.Recipients)),
	)

	return &mailer.SentMessage{
		Envelope:  envelope,
		MessageID: messageID,
	}, nil
}

func (t *Transport) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL(t.endpoint, t.apiVersion), bytes.NewReader(body))
	if err != nil {
		return "", errors.Join(ErrConnectionFailed, err)
	}
	req.Header = signHeaders(t.key, t.endpoint, t.apiVersion, body, t.now())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", errors.Join(ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", errors.Join(ErrConnectionFailed, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusAccepted {
		return "", rejected(resp.StatusCode, respBody)
	}

	var accepted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &accepted); err != nil {
		return "", errors.Join(ErrDecodeFailed, err)
	}
	if accepted.ID == "" {
		return "", errors.Join(ErrDecodeFailed, ErrMissingMessageID)
	}
	return accepted.ID, nil
}

// rejected prefers the API's structured error and falls back to the raw body.
func rejected(status int, body []byte) error {
	var apiErr struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil && apiErr.Error.Code != "" {
		return &SendRejectedError{
			StatusCode: status,
			Code:       apiErr.Error.Code,
			Message:    apiErr.Error.Message,
		}
	}
	return &SendRejectedError{
		StatusCode: status,
		Body:       string(body),
	}
}

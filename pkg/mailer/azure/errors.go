package azure

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed is returned when no HTTP status could be obtained.
	ErrConnectionFailed = errors.New("azure: could not connect to provider")

	// ErrSendRejected is returned when the API answers with a status other
	// than 202 Accepted. The concrete error is *SendRejectedError.
	ErrSendRejected = errors.New("azure: unable to send email")

	// ErrDecodeFailed is returned when an accepted response cannot be decoded.
	ErrDecodeFailed = errors.New("azure: failed to decode response")

	// ErrMissingMessageID is returned when an accepted response has no id.
	ErrMissingMessageID = errors.New("azure: response has no message id")

	// ErrInvalidKey is returned when the access key is not valid base64.
	ErrInvalidKey = errors.New("azure: access key is not valid base64")

	// ErrEncodeFailed is returned when the request payload cannot be encoded.
	ErrEncodeFailed = errors.New("azure: failed to encode payload")
)

// SendRejectedError describes a non-202 response.
// Code and Message are set when the API returned a structured error,
// otherwise Body holds the raw response text.
type SendRejectedError struct {
	Code       string
	Message    string
	Body       string
	StatusCode int
}

func (e *SendRejectedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%v (%s): %s (status %d)", ErrSendRejected, e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s (code %d)", ErrSendRejected, e.Body, e.StatusCode)
}

// Is makes errors.Is(err, ErrSendRejected) match.
func (e *SendRejectedError) Is(target error) bool {
	return target == ErrSendRejected
}

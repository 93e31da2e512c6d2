package mailer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSender indicates neither the email nor the config provides a sender.
	ErrNoSender = errors.New("email must have a sender")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates neither HTML nor plain text content was provided.
	ErrNoContent = errors.New("email must have HTML or text content")

	// ErrInvalidAddress indicates an address could not be parsed.
	ErrInvalidAddress = errors.New("invalid email address")

	// ErrRenderFailed indicates message rendering failed.
	ErrRenderFailed = errors.New("failed to render message")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrUnsupportedScheme indicates a transport factory was handed a DSN
	// scheme it does not serve. See UnsupportedSchemeError.
	ErrUnsupportedScheme = errors.New("unsupported transport scheme")

	// ErrIncompleteConfig indicates required transport settings are missing.
	ErrIncompleteConfig = errors.New("incomplete transport configuration")
)

// UnsupportedSchemeError reports a DSN scheme that a transport factory
// cannot serve together with the schemes it does support.
type UnsupportedSchemeError struct {
	Scheme    string
	Provider  string
	Supported []string
}

func (e *UnsupportedSchemeError) Error() string {
	quoted := make([]string, len(e.Supported))
	for i, s := range e.Supported {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("the %q scheme is not supported; supported schemes for mailer %q are: %s",
		e.Scheme, e.Provider, strings.Join(quoted, ", "))
}

// Is makes errors.Is(err, ErrUnsupportedScheme) match.
func (e *UnsupportedSchemeError) Is(target error) bool {
	return target == ErrUnsupportedScheme
}

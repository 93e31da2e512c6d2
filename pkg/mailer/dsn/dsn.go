// Package dsn parses mailer connection descriptors such as
// "azure+api://:KEY@my-resource.communication.azure.com?api-version=2023-03-31".
package dsn

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidDSN indicates the descriptor is not a valid scheme://host URL.
var ErrInvalidDSN = errors.New("dsn: invalid connection descriptor")

// DSN is a parsed connection descriptor.
// Zero values mean the field was absent.
type DSN struct {
	Options  map[string]string
	Scheme   string
	Host     string
	User     string
	Password string
	Port     int
}

// New creates a DSN from its parts. Use it when the descriptor is
// assembled in code rather than parsed.
func New(scheme, host, user, password string, port int, options map[string]string) DSN {
	return DSN{
		Scheme:   scheme,
		Host:     host,
		User:     user,
		Password: password,
		Port:     port,
		Options:  options,
	}
}

// Parse parses a descriptor of the form
// scheme://[user[:password]@]host[:port][?option=value...].
// User and password are URL-decoded.
func Parse(raw string) (DSN, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DSN{}, fmt.Errorf("%w: empty string", ErrInvalidDSN)
	}
	if !strings.Contains(raw, "://") {
		return DSN{}, fmt.Errorf("%w: missing scheme", ErrInvalidDSN)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return DSN{}, fmt.Errorf("%w: %v", ErrInvalidDSN, err)
	}
	if u.Scheme == "" {
		return DSN{}, fmt.Errorf("%w: missing scheme", ErrInvalidDSN)
	}
	if u.Hostname() == "" {
		return DSN{}, fmt.Errorf("%w: missing host", ErrInvalidDSN)
	}

	d := DSN{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
	}
	if u.User != nil {
		d.User = u.User.Username()
		d.Password, _ = u.User.Password()
	}
	if p := u.Port(); p != "" {
		if d.Port, err = strconv.Atoi(p); err != nil {
			return DSN{}, fmt.Errorf("%w: invalid port %q", ErrInvalidDSN, p)
		}
	}
	if q := u.Query(); len(q) > 0 {
		d.Options = make(map[string]string, len(q))
		for k := range q {
			d.Options[k] = q.Get(k)
		}
	}

	return d, nil
}

// Option returns the named option or "" when absent.
func (d DSN) Option(name string) string {
	return d.Options[name]
}

// HostPort returns the host with ":port" appended when a port is set.
func (d DSN) HostPort() string {
	if d.Port == 0 || d.Host == "" {
		return d.Host
	}
	return d.Host + ":" + strconv.Itoa(d.Port)
}

// String renders the descriptor with the password masked.
func (d DSN) String() string {
	var b strings.Builder
	b.WriteString(d.Scheme)
	b.WriteString("://")
	if d.User != "" || d.Password != "" {
		b.WriteString(url.PathEscape(d.User))
		if d.Password != "" {
			b.WriteString(":****")
		}
		b.WriteString("@")
	}
	b.WriteString(d.HostPort())
	return b.String()
}

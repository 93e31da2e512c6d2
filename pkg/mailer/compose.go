package mailer

import (
	"bytes"
	"fmt"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// frontmatter lists the message headers a message file may declare.
type frontmatter struct {
	Headers map[string]string `yaml:"headers"`
	Subject string            `yaml:"subject"`
	From    string            `yaml:"from"`
	To      []string          `yaml:"to"`
	CC      []string          `yaml:"cc"`
	BCC     []string          `yaml:"bcc"`
	ReplyTo []string          `yaml:"reply_to"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM, ActionExtension()))

// Compose builds an Email from a message file: optional YAML frontmatter
// followed by a Markdown body.
//
//	---
//	subject: Welcome {{.Name}}
//	from: Team <team@example.com>
//	to: ["Alice <alice@example.com>"]
//	---
//	Hello **{{.Name}}**!
//
// Subject and body are executed as text templates with data before the
// body is converted to HTML. Text holds the rendered Markdown.
func Compose(raw []byte, data any) (*Email, error) {
	head, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, err
	}

	var fm frontmatter
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	subject, err := execute("subject", fm.Subject, data)
	if err != nil {
		return nil, err
	}
	text, err := execute("body", string(body), data)
	if err != nil {
		return nil, err
	}

	var htmlBody bytes.Buffer
	if err := markdown.Convert([]byte(text), &htmlBody); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	email := &Email{
		Subject: subject,
		HTML:    htmlBody.String(),
		Text:    text,
		Headers: fm.Headers,
	}
	if fm.From != "" {
		if email.From, err = ParseAddress(fm.From); err != nil {
			return nil, err
		}
	}
	if email.To, err = ParseAddressList(fm.To); err != nil {
		return nil, err
	}
	if email.CC, err = ParseAddressList(fm.CC); err != nil {
		return nil, err
	}
	if email.BCC, err = ParseAddressList(fm.BCC); err != nil {
		return nil, err
	}
	if email.ReplyTo, err = ParseAddressList(fm.ReplyTo); err != nil {
		return nil, err
	}

	return email, nil
}

func execute(name, src string, data any) (string, error) {
	if src == "" {
		return "", nil
	}
	tmpl, err := texttemplate.New(name).Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse %s: %v", ErrRenderFailed, name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: failed to execute %s: %v", ErrRenderFailed, name, err)
	}
	return buf.String(), nil
}

// splitFrontmatter separates "---" delimited frontmatter from the body.
// Content without a leading delimiter is all body.
func splitFrontmatter(content []byte) (head, body []byte, err error) {
	delimiter := []byte("---")
	if !bytes.HasPrefix(content, delimiter) {
		return nil, content, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	if len(rest) == 0 {
		return nil, nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	body = rest[end+len(delimiter):]
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case bytes.HasPrefix(body, []byte("\n")):
		body = body[1:]
	}
	return rest[:end], body, nil
}

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/acsmail/pkg/cmdtest"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var accessKey = base64.StdEncoding.EncodeToString([]byte("cli-test-key/with+symbols"))

type fakeAPI struct {
	srv      *httptest.Server
	mu       sync.Mutex
	subjects []string
}

// newFakeAPI accepts every message unless its subject contains "reject".
func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Content struct {
				Subject string `json:"subject"`
			} `json:"content"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		api.mu.Lock()
		api.subjects = append(api.subjects, body.Content.Subject)
		api.mu.Unlock()

		if strings.Contains(body.Content.Subject, "reject") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":"InvalidSender","message":"bad address"}}`)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"id":"id-`+strings.ReplaceAll(body.Content.Subject, " ", "-")+`"}`)
	}))
	t.Cleanup(api.srv.Close)
	return api
}

func (f *fakeAPI) dsn() string {
	host := strings.TrimPrefix(f.srv.URL, "https://")
	return "azure+api://" + url.UserPassword("", accessKey).String() + "@" + host
}

func (f *fakeAPI) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.subjects...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func message(subject string) string {
	return "---\nsubject: " + subject + "\nto: [alice@example.com]\n---\nHello **there**\n"
}

func newApp(api *fakeAPI, environ map[string]string) (*app, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &app{
		stdout:     &stdout,
		stderr:     &stderr,
		environ:    environ,
		httpClient: api.srv.Client(),
	}, &stdout, &stderr
}

func TestRun_SendsAllFiles(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	dir := t.TempDir()
	first := writeFile(t, dir, "first.md", message("first"))
	second := writeFile(t, dir, "second.md", message("second"))

	a, stdout, _ := newApp(api, map[string]string{
		"MAILER_DSN":  api.dsn(),
		"MAILER_FROM": "Team <team@example.com>",
	})

	status := a.run(context.Background(), []string{first, second})

	cmdtest.Succeeded(t, status)
	require.ElementsMatch(t, []string{"first", "second"}, api.received())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "sent "+first+" id-first", lines[0])
	require.Equal(t, "sent "+second+" id-second", lines[1])
}

func TestRun_RejectedMessageFails(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.md", message("good"))
	bad := writeFile(t, dir, "bad.md", message("reject me"))

	a, stdout, _ := newApp(api, map[string]string{
		"MAILER_DSN":  api.dsn(),
		"MAILER_FROM": "team@example.com",
	})

	status := a.run(context.Background(), []string{good, bad})

	cmdtest.Failed(t, status)
	require.Len(t, api.received(), 2)
	require.Contains(t, stdout.String(), "sent "+good+" id-good")
	require.Contains(t, stdout.String(), "failed "+bad+": azure: unable to send email (InvalidSender): bad address (status 400)")
}

func TestRun_ComposeErrorFails(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.md", "---\nsubject: [unclosed\n---\nbody")

	a, stdout, _ := newApp(api, map[string]string{
		"MAILER_DSN":  api.dsn(),
		"MAILER_FROM": "team@example.com",
	})

	status := a.run(context.Background(), []string{broken, filepath.Join(dir, "missing.md")})

	cmdtest.Failed(t, status)
	require.Empty(t, api.received())
	require.Contains(t, stdout.String(), "failed "+broken+": invalid frontmatter")
	require.Contains(t, stdout.String(), "missing.md")
}

func TestRun_InvalidUsage(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	dir := t.TempDir()
	msg := writeFile(t, dir, "msg.md", message("hello"))

	tests := []struct {
		name    string
		args    []string
		environ map[string]string
	}{
		{
			name:    "no files",
			args:    nil,
			environ: map[string]string{"MAILER_DSN": api.dsn()},
		},
		{
			name:    "unknown flag",
			args:    []string{"-nope", msg},
			environ: map[string]string{"MAILER_DSN": api.dsn()},
		},
		{
			name:    "no transport configuration",
			args:    []string{msg},
			environ: map[string]string{},
		},
		{
			name:    "unsupported scheme",
			args:    []string{msg},
			environ: map[string]string{"MAILER_DSN": "acs://:key@example.com"},
		},
		{
			name:    "dsn without key",
			args:    []string{msg},
			environ: map[string]string{"MAILER_DSN": "azure+api://example.com"},
		},
		{
			name:    "malformed timeout",
			args:    []string{msg},
			environ: map[string]string{"MAILER_DSN": api.dsn(), "MAILER_HTTP_TIMEOUT": "soon"},
		},
		{
			name:    "missing env file",
			args:    []string{"-env-file", filepath.Join(dir, "nope.env"), msg},
			environ: map[string]string{},
		},
		{
			name:    "missing vars file",
			args:    []string{"-vars", filepath.Join(dir, "nope.yaml"), msg},
			environ: map[string]string{"MAILER_DSN": api.dsn()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, _, _ := newApp(api, tt.environ)

			status := a.run(context.Background(), tt.args)

			cmdtest.IsInvalid(t, status)
		})
	}
	require.Empty(t, api.received())
}

func TestRun_UnsupportedSchemeIsReported(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	msg := writeFile(t, t.TempDir(), "msg.md", message("hello"))

	a, _, stderr := newApp(api, map[string]string{"MAILER_DSN": "acs://:key@example.com"})

	status := a.run(context.Background(), []string{msg})

	cmdtest.IsInvalid(t, status)
	require.Contains(t, stderr.String(), `supported schemes for mailer "azure" are: "azure", "azure+api"`)
}

func TestRun_EnvFileAndVars(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "MAILER_DSN="+api.dsn()+"\nMAILER_FROM=team@example.com\n")
	vars := writeFile(t, dir, "vars.yaml", "Name: Alice\n")
	msg := writeFile(t, dir, "welcome.md", message("welcome {{.Name}}"))

	a, stdout, _ := newApp(api, map[string]string{})

	status := a.run(context.Background(), []string{"-env-file", envFile, "-vars", vars, "-concurrency", "1", msg})

	cmdtest.Succeeded(t, status)
	require.Equal(t, []string{"welcome Alice"}, api.received())
	require.Contains(t, stdout.String(), "id-welcome-Alice")
}

func TestRun_EnvironmentWinsOverEnvFile(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "MAILER_DSN=acs://:key@example.com\n")
	msg := writeFile(t, dir, "msg.md", message("hello"))

	a, _, _ := newApp(api, map[string]string{
		"MAILER_DSN":  api.dsn(),
		"MAILER_FROM": "team@example.com",
	})

	status := a.run(context.Background(), []string{"-env-file", envFile, msg})

	cmdtest.Succeeded(t, status)
}

func TestRun_AzureEnvironmentConfig(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	msg := writeFile(t, t.TempDir(), "msg.md", message("hello"))

	a, stdout, _ := newApp(api, map[string]string{
		"AZURE_MAILER_ENDPOINT":    api.srv.URL,
		"AZURE_MAILER_KEY":         accessKey,
		"AZURE_MAILER_API_VERSION": "2024-07-01-preview",
		"MAILER_FROM":              "team@example.com",
	})

	status := a.run(context.Background(), []string{msg})

	cmdtest.Succeeded(t, status)
	require.Contains(t, stdout.String(), "id-hello")
}

func TestRun_MissingSenderFails(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	msg := writeFile(t, t.TempDir(), "msg.md", message("hello"))

	a, stdout, _ := newApp(api, map[string]string{"MAILER_DSN": api.dsn()})

	status := a.run(context.Background(), []string{msg})

	cmdtest.Failed(t, status)
	require.Contains(t, stdout.String(), "email must have a sender")
	require.Empty(t, api.received())
}

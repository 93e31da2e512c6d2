// Command acsmail sends Markdown message files through Azure Communication Services.
//
//	acsmail [-env-file .env] [-vars vars.yaml] [-concurrency 4] message.md...
//
// The transport is configured with MAILER_DSN
// (azure+api://:KEY@resource.communication.azure.com?api-version=...)
// or with AZURE_MAILER_ENDPOINT / AZURE_MAILER_KEY / AZURE_MAILER_API_VERSION.
//
// Exit status is 0 when every message was sent, 1 when any message failed
// and 2 on invalid usage or configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/acsmail/pkg/logger"
	"github.com/dmitrymomot/acsmail/pkg/mailer"
	"github.com/dmitrymomot/acsmail/pkg/mailer/azure"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitInvalid = 2
)

type config struct {
	DSN         string        `env:"MAILER_DSN"`
	Azure       azure.Config
	Mailer      mailer.Config
	Sentry      logger.SentryConfig
	HTTPTimeout time.Duration `env:"MAILER_HTTP_TIMEOUT" envDefault:"30s"`
	Concurrency int           `env:"MAILER_CONCURRENCY" envDefault:"4"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

// app holds the process boundary so tests can replace it.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	environ    map[string]string
	httpClient azure.HTTPClient // nil builds one from MAILER_HTTP_TIMEOUT
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		environ: env.ToMap(os.Environ()),
	}
	code := a.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

type result struct {
	err       error
	file      string
	messageID string
}

func (a *app) run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("acsmail", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	envFile := fs.String("env-file", "", "load variables from a .env file (existing variables win)")
	varsFile := fs.String("vars", "", "YAML file with template data for subjects and bodies")
	concurrency := fs.Int("concurrency", 0, "messages sent in parallel (default MAILER_CONCURRENCY)")
	fs.Usage = func() {
		fmt.Fprintln(a.stderr, "usage: acsmail [flags] message.md...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitInvalid
	}
	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return exitInvalid
	}

	cfg, err := a.loadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(a.stderr, "acsmail: %v\n", err)
		return exitInvalid
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	vars, err := loadVars(*varsFile)
	if err != nil {
		fmt.Fprintf(a.stderr, "acsmail: %v\n", err)
		return exitInvalid
	}

	log := logger.NewWithSentry(cfg.Sentry, a.stderr, cfg.LogLevel, logger.SendIDExtractor())
	defer logger.Flush(2 * time.Second)

	transport, err := a.newTransport(cfg, log)
	if err != nil {
		fmt.Fprintf(a.stderr, "acsmail: %v\n", err)
		return exitInvalid
	}
	m := mailer.New(transport, cfg.Mailer)

	results := make([]result, len(files))
	var g errgroup.Group
	g.SetLimit(max(cfg.Concurrency, 1))
	for i, file := range files {
		g.Go(func() error {
			results[i] = result{file: file}
			results[i].messageID, results[i].err = sendFile(ctx, m, file, vars)
			return nil
		})
	}
	_ = g.Wait()

	return a.report(results)
}

func (a *app) loadConfig(envFile string) (config, error) {
	environ := make(map[string]string, len(a.environ))
	for k, v := range a.environ {
		environ[k] = v
	}
	if envFile != "" {
		fromFile, err := godotenv.Read(envFile)
		if err != nil {
			return config{}, fmt.Errorf("read env file: %w", err)
		}
		for k, v := range fromFile {
			if _, set := environ[k]; !set {
				environ[k] = v
			}
		}
	}

	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (a *app) newTransport(cfg config, log *slog.Logger) (*azure.Transport, error) {
	client := a.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	opts := []azure.Option{
		azure.WithHTTPClient(client),
		azure.WithLogger(log),
	}

	if cfg.DSN != "" {
		return azure.NewFactory(opts...).CreateFromString(cfg.DSN)
	}
	return azure.New(cfg.Azure, opts...)
}

func loadVars(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vars: %w", err)
	}
	var vars map[string]any
	if err := yaml.Unmarshal(raw, &vars); err != nil {
		return nil, fmt.Errorf("parse vars: %w", err)
	}
	return vars, nil
}

func sendFile(ctx context.Context, m *mailer.Mailer, path string, vars map[string]any) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	email, err := mailer.Compose(raw, vars)
	if err != nil {
		return "", err
	}
	sent, err := m.Send(ctx, email)
	if err != nil {
		return "", err
	}
	return sent.MessageID, nil
}

// report prints one line per file in argument order.
func (a *app) report(results []result) int {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	code := exitSuccess
	for _, r := range results {
		if r.err != nil {
			code = exitFailure
			fail.Fprint(a.stdout, "failed")
			fmt.Fprintf(a.stdout, " %s: %v\n", r.file, describe(r.err))
			continue
		}
		ok.Fprint(a.stdout, "sent")
		fmt.Fprintf(a.stdout, " %s %s\n", r.file, r.messageID)
	}
	return code
}

// describe surfaces the provider's rejection details when present.
func describe(err error) string {
	var rejected *azure.SendRejectedError
	if errors.As(err, &rejected) {
		return rejected.Error()
	}
	return strings.ReplaceAll(err.Error(), "\n", ": ")
}

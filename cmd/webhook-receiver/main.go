// Command webhook-receiver accepts Parselyze job notifications, verifies their
// signature, and optionally exports each result to a directory.
// Usage: go run ./cmd/webhook-receiver --webhook-secret=... [--export-dir=./exports]
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/parselyze/parselyze-go"
	"github.com/parselyze/parselyze-go/internal/config"
	"github.com/parselyze/parselyze-go/internal/export"
	"github.com/parselyze/parselyze-go/internal/handler"
	"github.com/parselyze/parselyze-go/internal/logger"
	"github.com/parselyze/parselyze-go/internal/metrics"
	"github.com/parselyze/parselyze-go/internal/port"
	"github.com/parselyze/parselyze-go/internal/router"
	"github.com/parselyze/parselyze-go/internal/service"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	rcv, err := newReceiver(args)
	if err != nil {
		return err
	}
	defer func() { _ = rcv.close() }()

	srv := &http.Server{
		Addr:         rcv.cfg.Server.Port,
		Handler:      rcv.handler,
		ReadTimeout:  rcv.cfg.Server.ReadTimeout,
		WriteTimeout: rcv.cfg.Server.WriteTimeout,
	}
	return serve(srv, rcv.log)
}

// receiver is the configured HTTP surface, ready to be served.
type receiver struct {
	cfg     *config.Config
	log     zerolog.Logger
	handler http.Handler
	close   func() error
}

func newReceiver(args []string) (*receiver, error) {
	flags := pflag.NewFlagSet("webhook-receiver", pflag.ContinueOnError)
	flags.String("port", ":8080", "listen address")
	flags.String("webhook-secret", "", "webhook signing secret")
	flags.String("api-key", "", "API key, used to fetch results missing from events")
	flags.String("base-url", "", "API base URL")
	flags.String("log-level", "info", "log level")
	flags.Bool("pretty", false, "human-readable logs")
	exportDir := flags.String("export-dir", "", "write each result to this directory")
	exportFormat := flags.String("export-format", "csv", "export format: csv or xlsx")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	rcv := &receiver{cfg: cfg, log: log, close: closeLog}

	if cfg.Webhook.Secret == "" {
		log.Warn().Msg("no webhook secret configured: every delivery will be rejected")
	}

	m := metrics.New()
	verifier := webhook.NewVerifier(cfg.Webhook.Secret)

	var jobs port.JobFetcher
	if cfg.API.Key != "" {
		client, err := parselyze.New(cfg.API.Key,
			parselyze.WithBaseURL(cfg.API.BaseURL),
			parselyze.WithTimeout(cfg.API.Timeout),
			parselyze.WithLogger(log),
			parselyze.WithMetrics(m),
		)
		if err != nil {
			_ = closeLog()
			return nil, fmt.Errorf("failed to create api client: %w", err)
		}
		jobs = client.Jobs
	}

	var sink service.ResultSink
	if *exportDir != "" {
		format, err := export.ParseFormat(*exportFormat)
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		dirSink, err := export.NewDirSink(*exportDir, format)
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		sink = dirSink
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	events := service.NewEventService(jobs, sink, log)
	rcv.handler = router.Setup(router.Options{
		WebhookPath: cfg.Webhook.Path,
		Verifier:    verifier,
		Observer:    m,
		Metrics:     m.Handler(),
		Log:         log,
	}, handler.NewWebhookHandler(events, log), handler.NewHealthHandler(verifier.HasSecret()))
	return rcv, nil
}

func serve(srv *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("webhook receiver listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

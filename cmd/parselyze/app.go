package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/parselyze/parselyze-go"
	"github.com/parselyze/parselyze-go/internal/config"
	"github.com/parselyze/parselyze-go/internal/export"
	"github.com/parselyze/parselyze-go/internal/logger"
	"github.com/parselyze/parselyze-go/internal/port"
	"github.com/parselyze/parselyze-go/internal/storage"
	"github.com/parselyze/parselyze-go/internal/storage/local"
	s3storage "github.com/parselyze/parselyze-go/internal/storage/s3"
)

// app is the state shared by commands after flags and config are loaded.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *parselyze.Client
	stdout io.Writer
	close  func() error
}

// commonFlags registers the flags every API command accepts.
func commonFlags(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("api-key", "", "API key (plz_...)")
	fs.String("base-url", "", "API base URL")
	fs.Duration("timeout", 30*time.Second, "per-request timeout")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.Bool("pretty", false, "human-readable logs")
	return fs
}

// newApp loads config and builds a client. paths are the file sources about
// to be submitted; object storage is only set up when one of them needs it.
func newApp(ctx context.Context, fs *pflag.FlagSet, paths []string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
		Out:    stderr,
	})
	if err != nil {
		return nil, err
	}

	files, err := fileReader(ctx, cfg, paths)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	client, err := parselyze.New(cfg.API.Key,
		parselyze.WithBaseURL(cfg.API.BaseURL),
		parselyze.WithTimeout(cfg.API.Timeout),
		parselyze.WithUserAgent(cfg.API.UserAgent),
		parselyze.WithWebhookSecret(cfg.Webhook.Secret),
		parselyze.WithFileReader(files),
		parselyze.WithLogger(log),
	)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	return &app{cfg: cfg, log: log, client: client, stdout: stdout, close: closeLog}, nil
}

func fileReader(ctx context.Context, cfg *config.Config, paths []string) (port.FileReader, error) {
	needsS3 := false
	for _, p := range paths {
		if strings.HasPrefix(p, "s3://") {
			needsS3 = true
			break
		}
	}
	if !needsS3 {
		return local.NewReader(), nil
	}
	objects, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("initializing S3 client: %w", err)
	}
	return storage.NewRouter(local.NewReader(), objects), nil
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeExport writes records to path, choosing the format from its extension.
func writeExport(path string, records []export.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.Write(f, export.FormatFromPath(path), records); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	return f.Close()
}

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/parselyze/parselyze-go/internal/config"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

// loadVerifier builds a verifier from the configured webhook secret.
func loadVerifier(fs *pflag.FlagSet) (*webhook.Verifier, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Webhook.Secret == "" {
		return nil, fmt.Errorf("verify: a webhook secret is required (--webhook-secret or PARSELYZE_WEBHOOK_SECRET)")
	}
	return webhook.NewVerifier(cfg.Webhook.Secret), nil
}

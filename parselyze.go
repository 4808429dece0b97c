// Package parselyze is a client for the Parselyze document parsing API.
//
// Documents are submitted with Client.Documents, asynchronous jobs are polled
// with Client.Jobs, and webhook notifications are authenticated with
// Client.Webhooks:
//
//	client, err := parselyze.New("plz_...", parselyze.WithWebhookSecret(secret))
//	if err != nil {
//		return err
//	}
//	job, err := client.Documents.ParseAsync(ctx, parselyze.AsyncParseRequest{
//		File:       parselyze.FromPath("./invoice.pdf"),
//		TemplateID: "template-123",
//	})
//
// Every operation returns *Error on failure. Calls are attempted once and are
// never retried.
package parselyze

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/parselyze/parselyze-go/internal/apiclient"
	"github.com/parselyze/parselyze-go/internal/documents"
	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/jobs"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

// APIKeyPrefix starts every valid API key.
const APIKeyPrefix = "plz_"

// Version of this client.
const Version = apiclient.Version

// Client bundles the documents, jobs and webhooks clients. It holds only
// immutable configuration and is safe for concurrent use.
type Client struct {
	Documents *DocumentsClient
	Jobs      *JobsClient
	Webhooks  *WebhookVerifier

	cfg apiclient.Config
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, domain.NewValidationError("API key is required")
	}
	if !strings.HasPrefix(apiKey, APIKeyPrefix) {
		return nil, domain.NewValidationError("invalid API key format: API key should start with %q", APIKeyPrefix)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateBaseURL(o.baseURL); err != nil {
		return nil, err
	}

	caller := apiclient.NewCaller(apiclient.Config{
		APIKey:    apiKey,
		BaseURL:   o.baseURL,
		Timeout:   o.timeout,
		UserAgent: o.userAgent,
	}, o.httpClient, o.log, o.metrics)

	return &Client{
		Documents: documents.NewClient(caller, o.files),
		Jobs:      jobs.NewClient(caller),
		Webhooks:  webhook.NewVerifier(o.webhookSecret),
		cfg:       caller.Config(),
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return domain.NewValidationError("invalid base URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.NewValidationError("invalid base URL %q: scheme must be http or https", raw)
	}
	return nil
}

// String implements fmt.Stringer without exposing the API key.
func (c *Client) String() string {
	return fmt.Sprintf("parselyze.Client{baseURL: %s}", c.cfg.BaseURL)
}

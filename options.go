package parselyze

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/apiclient"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	webhookSecret string
	baseURL       string
	timeout       time.Duration
	userAgent     string
	httpClient    HTTPDoer
	files         FileReader
	log           zerolog.Logger
	metrics       MetricsRecorder
}

func defaultOptions() options {
	return options{
		baseURL:   apiclient.DefaultBaseURL,
		timeout:   apiclient.DefaultTimeout,
		userAgent: apiclient.DefaultUserAgent,
		log:       zerolog.Nop(),
	}
}

// WithWebhookSecret sets the secret used to verify webhook signatures.
// Without it every verification fails.
func WithWebhookSecret(secret string) Option {
	return func(o *options) { o.webhookSecret = secret }
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithTimeout bounds each call. Non-positive values keep the 30s default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithHTTPClient replaces the transport. *http.Client satisfies HTTPDoer; its
// own Timeout should be left unset since each call carries a deadline.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(o *options) { o.httpClient = doer }
}

// WithFileReader replaces how path sources are read. Defaults to the local
// file system.
func WithFileReader(r FileReader) Option {
	return func(o *options) { o.files = r }
}

// WithLogger enables debug logging of API calls.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records one observation per API call.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) { o.metrics = m }
}

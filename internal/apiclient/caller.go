package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/port"
)

// Version is reported in the default User-Agent.
const Version = "1.0.0"

const (
	DefaultBaseURL = "https://api.parselyze.com"
	DefaultTimeout = 30 * time.Second
)

// DefaultUserAgent identifies this client to the API.
var DefaultUserAgent = "parselyze-go/" + Version

// Config is the immutable connection configuration shared by all sub-clients.
type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// Request describes one API call. Endpoint is a short label used in logs and metrics.
type Request struct {
	Endpoint    string
	Method      string
	Path        string
	Body        []byte
	ContentType string
}

// Response is a successful (2xx) API response whose body is valid JSON.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Caller executes API requests with a per-call timeout and maps every failure
// to a *domain.Error.
type Caller struct {
	cfg     Config
	http    port.HTTPDoer
	log     zerolog.Logger
	metrics port.MetricsRecorder
}

// NewCaller creates a Caller. doer defaults to a plain http.Client and metrics may be nil.
func NewCaller(cfg Config, doer port.HTTPDoer, log zerolog.Logger, metrics port.MetricsRecorder) *Caller {
	if doer == nil {
		doer = &http.Client{}
	}
	return &Caller{
		cfg:     cfg.withDefaults(),
		http:    doer,
		log:     log,
		metrics: metrics,
	}
}

// Config returns the effective configuration.
func (c *Caller) Config() Config {
	return c.cfg
}

// Do sends req and returns the decoded-as-raw response body.
func (c *Caller) Do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, outcome, err := c.do(ctx, req)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveRequest(req.Endpoint, outcome, elapsed)
	}

	status := domain.StatusOf(err)
	evt := c.log.Debug()
	if err != nil {
		evt = c.log.Warn().Err(err)
	} else {
		status = resp.StatusCode
	}
	evt.Str("endpoint", req.Endpoint).
		Str("method", req.Method).
		Str("outcome", outcome).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msg("parselyze api call")

	return resp, err
}

func (c *Caller) do(ctx context.Context, req Request) (*Response, string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, c.cfg.BaseURL+req.Path, body)
	if err != nil {
		return nil, port.OutcomeNetworkError, domain.NewNetworkError(err)
	}
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		outcome, failure := c.transportFailure(ctx, callCtx, err)
		return nil, outcome, failure
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome, failure := c.transportFailure(ctx, callCtx, err)
		return nil, outcome, failure
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := domain.NewStatusError(resp.StatusCode, errorMessage(resp, respBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			apiErr.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		}
		return nil, port.OutcomeHTTPError, apiErr
	}

	if !json.Valid(respBody) {
		return nil, port.OutcomeInvalidResponse, InvalidResponse(resp.StatusCode, errors.New("body is not valid JSON"))
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, port.OutcomeSuccess, nil
}

// transportFailure classifies an error raised before a complete response was read.
// The caller's context is checked first so its cancellation is never reported
// as this client's timeout.
func (c *Caller) transportFailure(parent, callCtx context.Context, err error) (string, error) {
	var existing *domain.Error
	if errors.As(err, &existing) {
		return port.OutcomeNetworkError, existing
	}
	if parentErr := parent.Err(); parentErr != nil {
		return port.OutcomeCanceled, domain.NewCanceledError(parentErr)
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return port.OutcomeTimeout, domain.NewTimeoutError(c.cfg.Timeout, err)
	}
	return port.OutcomeNetworkError, domain.NewNetworkError(err)
}

// InvalidResponse builds the error for a 2xx response whose body cannot be decoded.
func InvalidResponse(status int, err error) *domain.Error {
	return &domain.Error{
		Message: "invalid response body: " + err.Error(),
		Status:  status,
		Code:    domain.CodeInvalidResponse,
		Err:     err,
	}
}

// DecodeJSON unmarshals a successful response into v.
func DecodeJSON(resp *Response, v interface{}) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return InvalidResponse(resp.StatusCode, err)
	}
	return nil
}

// ParseRetryAfter parses a Retry-After value given in seconds or as an HTTP
// date. Returns 0 if the value is empty, invalid, or in the past.
func ParseRetryAfter(val string, now time.Time) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(val); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// errorMessage picks the most descriptive message: the body's "message", then
// its "error", then "HTTP <status>: <status text>".
func errorMessage(resp *http.Response, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := messageText(eb.Message); msg != "" {
			return msg
		}
		if msg := messageText(eb.Error); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp))
}

// messageText accepts a string or a list of strings.
func messageText(raw json.RawMessage) string {
	if domain.IsNullJSON(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

func statusText(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep the reason phrase only.
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

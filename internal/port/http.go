package port

import (
	"net/http"
	"time"
)

// Outcome labels passed to MetricsRecorder.
const (
	OutcomeSuccess         = "success"
	OutcomeHTTPError       = "http_error"
	OutcomeTimeout         = "timeout"
	OutcomeNetworkError    = "network_error"
	OutcomeCanceled        = "canceled"
	OutcomeInvalidResponse = "invalid_response"
)

// HTTPDoer sends a single HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MetricsRecorder receives one observation per outbound API call.
type MetricsRecorder interface {
	ObserveRequest(endpoint, outcome string, d time.Duration)
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parselyze/parselyze-go/internal/port"
)

var _ port.MetricsRecorder = (*Metrics)(nil)

// Metrics holds the collectors for API calls and webhook verification.
type Metrics struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	verifications *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates the collectors and registers them with reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parselyze",
				Name:      "api_requests_total",
				Help:      "Total API requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "parselyze",
				Name:      "api_request_duration_seconds",
				Help:      "Duration of API requests by endpoint",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "parselyze",
				Name:      "webhook_verifications_total",
				Help:      "Webhook signature checks by result",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.requests, m.latency, m.verifications)
	return m
}

// ObserveRequest records one API call.
func (m *Metrics) ObserveRequest(endpoint, outcome string, d time.Duration) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.latency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveVerification records one webhook signature check.
func (m *Metrics) ObserveVerification(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.verifications.WithLabelValues(result).Inc()
}

// Handler returns the http.Handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Package metrics defines the Prometheus metric collectors used across the
// loan services and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the pipeline.
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInFlight   prometheus.Gauge
	LoansProcessedTotal    *prometheus.CounterVec
	RiskScore              *prometheus.HistogramVec
	DecisionsTotal         *prometheus.CounterVec
	FinalLoanRisk          prometheus.Histogram
	HandoffsTotal          *prometheus.CounterVec
	HandoffLatency         *prometheus.HistogramVec
	HandoffQueueDepth      *prometheus.GaugeVec
	CircuitBreakerState    *prometheus.GaugeVec
	MalformedMessagesTotal *prometheus.CounterVec
	RoutedRequestsTotal    *prometheus.CounterVec
	NotificationsTotal     *prometheus.CounterVec
}

var scoreBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// New creates all collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code.",
			},
			[]string{"method", "path", "code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		LoansProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loans_processed_total",
				Help: "Loan requests enriched by the processor, by loan type and processor type.",
			},
			[]string{"loan_type", "processor_type"},
		),
		RiskScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_risk_score",
				Help:    "Calculated risk score (0-100) per loan type.",
				Buckets: scoreBuckets,
			},
			[]string{"loan_type"},
		),
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_decisions_total",
				Help: "Approval decisions by status (denied, high_risk, approved).",
			},
			[]string{"approval_status"},
		),
		FinalLoanRisk: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_final_risk",
				Help:    "Final loan risk after credit adjustment.",
				Buckets: scoreBuckets,
			},
		),
		HandoffsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handoffs_total",
				Help: "Inter-stage hand-offs by target and outcome (sent, failed, dropped).",
			},
			[]string{"target", "outcome"},
		),
		HandoffLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "handoff_duration_seconds",
				Help:    "Latency of outbound hand-off calls in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"target"},
		),
		HandoffQueueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "handoff_queue_depth",
				Help: "Records waiting in the hand-off queue.",
			},
			[]string{"target"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
		MalformedMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "malformed_messages_total",
				Help: "Inbound messages dropped because they could not be decoded.",
			},
			[]string{"topic"},
		),
		RoutedRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "routed_requests_total",
				Help: "Loan requests published by the router, by topic and risk level.",
			},
			[]string{"topic", "risk_level"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notifications logged by the notifier, by approval status.",
			},
			[]string{"approval_status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.LoansProcessedTotal,
		m.RiskScore,
		m.DecisionsTotal,
		m.FinalLoanRisk,
		m.HandoffsTotal,
		m.HandoffLatency,
		m.HandoffQueueDepth,
		m.CircuitBreakerState,
		m.MalformedMessagesTotal,
		m.RoutedRequestsTotal,
		m.NotificationsTotal,
	)

	return m
}

// NewNop returns collectors registered against a private registry. Useful
// when a caller does not export metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler returns the Prometheus scrape HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

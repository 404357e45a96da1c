// Package middleware holds the HTTP middleware shared by the loan services:
// request-ID propagation, Prometheus instrumentation and a per-request
// deadline. Chain applies all three in the order every service uses.
package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
)

// knownPaths are the routes the loan services expose. Anything else is
// reported as "other" to bound label cardinality.
var knownPaths = []string{
	"/approve",
	"/notify",
	"/route",
	"/health",
	"/health/live",
	"/health/ready",
	"/metrics",
}

const otherPath = "other"

// Metrics instruments next with request count, latency and in-flight gauges.
// The instrumented handler for each known path is built once up front.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		byPath := make(map[string]http.Handler, len(knownPaths)+1)
		for _, path := range append([]string{otherPath}, knownPaths...) {
			labels := prometheus.Labels{"path": path}
			byPath[path] = promhttp.InstrumentHandlerInFlight(m.HTTPRequestsInFlight,
				promhttp.InstrumentHandlerCounter(m.HTTPRequestsTotal.MustCurryWith(labels),
					promhttp.InstrumentHandlerDuration(m.HTTPRequestDuration.MustCurryWith(labels), next),
				),
			)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			byPath[normalizePath(r.URL.Path)].ServeHTTP(w, r)
		})
	}
}

func normalizePath(path string) string {
	for _, known := range knownPaths {
		if path == known {
			return path
		}
	}
	return otherPath
}

package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
)

// RequestIDHeader carries the correlation ID between services.
const RequestIDHeader = "X-Request-ID"

// RequestID propagates X-Request-ID into the request context, generating a
// UUID when the caller did not send one, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Chain wraps h with the standard service middleware, outermost first:
// RequestID → Metrics → Timeout.
func Chain(h http.Handler, m *metrics.Metrics, timeout time.Duration) http.Handler {
	var chain http.Handler = h
	if timeout > 0 {
		chain = Timeout(timeout)(chain)
	}
	if m != nil {
		chain = Metrics(m)(chain)
	}
	return RequestID(chain)
}

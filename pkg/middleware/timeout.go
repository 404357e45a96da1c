package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
)

// Timeout gives each request a deadline. A handler that has not started its
// response by then is answered with the ErrTimeout status and a JSON error
// body; anything it writes afterwards is discarded.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			gw := &guardedWriter{ResponseWriter: w, header: make(http.Header)}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
				return
			case <-ctx.Done():
			}
			if !gw.expire() {
				<-done
				return
			}
			slog.Warn("request timed out",
				"method", r.Method,
				"path", r.URL.Path,
				"timeout", timeout,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apperrors.HTTPStatusCode(apperrors.ErrTimeout))
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "error",
				"message": "request timed out",
			})
		})
	}
}

// guardedWriter lets the handler goroutine and the timeout path race for the
// response: whichever writes first owns it. The handler works on a private
// header map that is copied out only when it wins.
type guardedWriter struct {
	http.ResponseWriter
	header  http.Header
	mu      sync.Mutex
	started bool
	expired bool
}

func (gw *guardedWriter) Header() http.Header {
	return gw.header
}

// start flushes the handler's headers on its first write. Callers hold mu.
func (gw *guardedWriter) start() {
	if gw.started {
		return
	}
	gw.started = true
	dst := gw.ResponseWriter.Header()
	for k, v := range gw.header {
		dst[k] = v
	}
}

// expire claims the response for the timeout path. It reports false when the
// handler already started writing.
func (gw *guardedWriter) expire() bool {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.started {
		return false
	}
	gw.expired = true
	return true
}

func (gw *guardedWriter) WriteHeader(code int) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.expired || gw.started {
		return
	}
	gw.start()
	gw.ResponseWriter.WriteHeader(code)
}

func (gw *guardedWriter) Write(b []byte) (int, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.expired {
		return 0, http.ErrHandlerTimeout
	}
	gw.start()
	return gw.ResponseWriter.Write(b)
}

// Package tracing records per-request stage timings. A root span is keyed by
// the loan request ID so the spans logged by every service join on the same
// field as their other log records.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type contextKey struct{}

// Span is one timed stage of a request. Children are stages started from the
// span's context.
type Span struct {
	Name      string
	RequestID string
	StartTime time.Time
	Duration  time.Duration
	Children  []*Span
	Attrs     map[string]any
	mu        sync.Mutex
}

// Start opens a root span for requestID and stores it in the returned
// context.
func Start(ctx context.Context, name, requestID string) (context.Context, *Span) {
	span := newSpan(name, requestID)
	return context.WithValue(ctx, contextKey{}, span), span
}

// StartChild opens a stage under the span in ctx. Without a parent the
// child is detached and only its own End is meaningful.
func StartChild(ctx context.Context, name string) (context.Context, *Span) {
	parent := FromContext(ctx)
	var requestID string
	if parent != nil {
		requestID = parent.RequestID
	}
	child := newSpan(name, requestID)
	if parent != nil {
		parent.mu.Lock()
		parent.Children = append(parent.Children, child)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, child), child
}

func newSpan(name, requestID string) *Span {
	return &Span{
		Name:      name,
		RequestID: requestID,
		StartTime: time.Now(),
		Attrs:     make(map[string]any),
	}
}

// End records the span's duration.
func (s *Span) End() {
	s.mu.Lock()
	s.Duration = time.Since(s.StartTime)
	s.mu.Unlock()
}

// SetAttr attaches a key-value attribute to the span.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.Attrs[key] = value
	s.mu.Unlock()
}

// FromContext returns the current span in ctx, or nil.
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(contextKey{}).(*Span)
	return span
}

// Log writes the span tree to logger at debug level, one record per span.
func (s *Span) Log(logger *slog.Logger) {
	s.log(logger, "", 0)
}

func (s *Span) log(logger *slog.Logger, parent string, depth int) {
	s.mu.Lock()
	attrs := []any{
		"request_id", s.RequestID,
		"span", s.Name,
		"duration_us", s.Duration.Microseconds(),
		"depth", depth,
	}
	if parent != "" {
		attrs = append(attrs, "parent", parent)
	}
	for k, v := range s.Attrs {
		attrs = append(attrs, k, v)
	}
	children := append([]*Span(nil), s.Children...)
	s.mu.Unlock()

	logger.Debug("span", attrs...)
	for _, child := range children {
		child.log(logger, s.Name, depth+1)
	}
}

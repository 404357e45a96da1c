// Package handoff delivers records to the next pipeline stage on a
// best-effort basis. Send never blocks and never reports failure to the
// caller: records are queued, POSTed by a fixed pool of workers under a
// per-call timeout, and any failure is logged, counted and dropped. There is
// no retry and no dead-letter queue.
package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/resilience"
)

const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// maxDrainBytes bounds how much of a response body is read before the
// connection is reused. Responses are otherwise ignored.
const maxDrainBytes = 64 << 10

// Config describes one downstream endpoint.
type Config struct {
	// Target names the stage ("approver", "notifier") in logs and metrics.
	Target           string
	URL              string
	Timeout          time.Duration
	Workers          int
	QueueSize        int
	FailureThreshold int
	ResetTimeout     time.Duration
}

// FromConfig builds a dispatcher Config for target at url using the shared
// hand-off settings.
func FromConfig(target, url string, cfg config.HandoffConfig) Config {
	return Config{
		Target:           target,
		URL:              url,
		Timeout:          cfg.Timeout,
		Workers:          cfg.Workers,
		QueueSize:        cfg.QueueSize,
		FailureThreshold: cfg.FailureThreshold,
		ResetTimeout:     cfg.ResetTimeout,
	}
}

type job struct {
	requestID string
	body      []byte
}

// Dispatcher is a fire-and-forget JSON POST client for one endpoint.
type Dispatcher struct {
	cfg     Config
	client  *http.Client
	breaker *resilience.CircuitBreaker
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
}

// New creates a Dispatcher and starts its workers.
func New(cfg Config, client *http.Client, m *metrics.Metrics) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if client == nil {
		client = &http.Client{}
	}
	d := &Dispatcher{
		cfg:     cfg,
		client:  client,
		metrics: m,
		logger:  slog.Default().With("component", "handoff", "target", cfg.Target),
		queue:   make(chan job, cfg.QueueSize),
	}
	d.breaker = resilience.NewCircuitBreaker(cfg.Target, resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.FailureThreshold,
		ResetTimeout:     cfg.ResetTimeout,
		OnStateChange: func(name string, to resilience.State) {
			m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	m.CircuitBreakerState.WithLabelValues(cfg.Target).Set(float64(resilience.StateClosed))

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Info("handoff dispatcher started",
		"url", cfg.URL,
		"workers", cfg.Workers,
		"queue_size", cfg.QueueSize,
		"timeout", cfg.Timeout,
	)
	return d
}

// Send queues payload for delivery and returns immediately. Records that
// cannot be encoded or queued are dropped.
func (d *Dispatcher) Send(requestID string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.drop(requestID, fmt.Errorf("encoding payload: %w", err))
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(requestID, fmt.Errorf("dispatcher closed: %w", apperrors.ErrHandoffFailed))
		return
	}
	select {
	case d.queue <- job{requestID: requestID, body: body}:
		d.metrics.HandoffQueueDepth.WithLabelValues(d.cfg.Target).Set(float64(len(d.queue)))
		d.logger.Debug("handoff queued", "request_id", requestID)
	default:
		d.drop(requestID, apperrors.ErrQueueFull)
	}
}

// Close stops accepting records, delivers what is already queued, and waits
// for the workers to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Info("handoff dispatcher stopped")
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.metrics.HandoffQueueDepth.WithLabelValues(d.cfg.Target).Set(float64(len(d.queue)))
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	start := time.Now()
	err := resilience.WithTimeout(context.Background(), d.cfg.Timeout, "handoff "+d.cfg.Target, func(ctx context.Context) error {
		return d.breaker.Execute(func() error {
			return d.post(ctx, j)
		})
	})
	d.metrics.HandoffLatency.WithLabelValues(d.cfg.Target).Observe(time.Since(start).Seconds())
	if err != nil {
		d.metrics.HandoffsTotal.WithLabelValues(d.cfg.Target, OutcomeFailed).Inc()
		d.logger.Error("handoff failed",
			"request_id", j.requestID,
			"error", err,
		)
		return
	}
	d.metrics.HandoffsTotal.WithLabelValues(d.cfg.Target, OutcomeSent).Inc()
	d.logger.Info("handoff delivered",
		"request_id", j.requestID,
		"duration", time.Since(start),
	)
}

func (d *Dispatcher) post(ctx context.Context, j job) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(j.body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, j.requestID)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrHandoffFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s responded %s", apperrors.ErrHandoffFailed, d.cfg.Target, resp.Status)
	}
	return nil
}

func (d *Dispatcher) drop(requestID string, reason error) {
	d.metrics.HandoffsTotal.WithLabelValues(d.cfg.Target, OutcomeDropped).Inc()
	d.logger.Warn("handoff dropped",
		"request_id", requestID,
		"reason", reason,
	)
}

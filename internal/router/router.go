// Package router is the intake side of the pipeline. It validates raw loan
// requests, flags unverifiable loan items as high risk, and publishes each
// request to the Kafka topic for its loan type.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
)

// Publisher writes an event to Kafka. *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Result describes where a routed request was published.
type Result struct {
	RequestID string
	Topic     string
	RiskLevel string
}

type Router struct {
	catalog        *Catalog
	topics         config.KafkaTopics
	publisher      Publisher
	publishTimeout time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// New creates a Router. A zero publishTimeout leaves the caller's deadline
// in charge.
func New(catalog *Catalog, topics config.KafkaTopics, pub Publisher, publishTimeout time.Duration, m *metrics.Metrics) *Router {
	return &Router{
		catalog:        catalog,
		topics:         topics,
		publisher:      pub,
		publishTimeout: publishTimeout,
		metrics:        m,
		logger:         slog.Default().With("component", "router"),
	}
}

// TopicFor returns the topic that carries loanType. Unrecognised types go to
// the unknown topic.
func (r *Router) TopicFor(loanType string) string {
	switch loanType {
	case loan.TypePersonal:
		return r.topics.Personal
	case loan.TypeRealState:
		return r.topics.RealState
	case loan.TypeVehicle:
		return r.topics.Vehicle
	default:
		return r.topics.Unknown
	}
}

// Assess verifies the loan item against the catalog. Requests without an
// item are low risk and report the item as missing.
func (r *Router) Assess(item string) (exists bool, riskLevel string) {
	if item == "" {
		return false, loan.RiskLevelLow
	}
	if r.catalog.Exists(item) {
		return true, loan.RiskLevelLow
	}
	return false, loan.RiskLevelHigh
}

// Route stamps req with a request ID (if absent), its risk level and item
// verification, then publishes it keyed by request ID. req must already be
// valid. Publish failures are returned as an *apperrors.AppError.
func (r *Router) Route(ctx context.Context, req loan.Request) (Result, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	exists, riskLevel := r.Assess(req.LoanItem)
	req.ItemExists = loan.Bool(exists)
	req.RiskLevel = riskLevel
	if riskLevel == loan.RiskLevelHigh {
		r.logger.Warn("loan item not found in catalog, flagged as high risk",
			"request_id", req.RequestID,
			"loan_item", req.LoanItem,
		)
	}

	topic := r.TopicFor(req.LoanType)
	if r.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.publishTimeout)
		defer cancel()
	}
	err := r.publisher.Publish(ctx, kafka.Event{
		Topic: topic,
		Key:   req.RequestID,
		Value: req,
	})

	r.logger.Info("KAFKA_ROUTE",
		"request_id", req.RequestID,
		"loan_type", req.LoanType,
		"topic", topic,
		"risk_level", riskLevel,
		"item_exists", exists,
		"loan_value", req.LoanRequestedValue,
		"customer_id", req.CustomerID,
		"published", err == nil,
	)
	result := Result{RequestID: req.RequestID, Topic: topic, RiskLevel: riskLevel}
	if err != nil {
		r.logger.Error("failed to publish loan request",
			"request_id", req.RequestID,
			"topic", topic,
			"error", err,
		)
		return result, apperrors.New(apperrors.ErrPublishFailed, http.StatusInternalServerError, "Failed to send to Kafka")
	}
	r.metrics.RoutedRequestsTotal.WithLabelValues(topic, riskLevel).Inc()
	return result, nil
}

// Package processor is the first pipeline stage. It consumes raw loan
// requests from Kafka, enriches each one with a credit score, a risk score
// and the inflated final loan value, and hands the enriched request to the
// approver without waiting for the outcome.
package processor

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/creditscore"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/tracing"
)

// ServiceName is reported by the processor's liveness probe.
const ServiceName = "loan-processor"

// RiskScorer scores a raw request in [0,100].
type RiskScorer interface {
	Score(req loan.Request) float64
}

// Forwarder delivers a record downstream on a best-effort basis. Send must
// not block on the network.
type Forwarder interface {
	Send(requestID string, payload any)
}

// Processor enriches raw requests. It holds no per-request state, so one
// instance serves every consumer goroutine.
type Processor struct {
	credit        creditscore.Lookup
	scorer        RiskScorer
	forwarder     Forwarder
	processorType string
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// New creates a Processor. processorType labels every enriched request
// produced from Kafka messages.
func New(credit creditscore.Lookup, scorer RiskScorer, forwarder Forwarder, processorType string, m *metrics.Metrics) *Processor {
	return &Processor{
		credit:        credit,
		scorer:        scorer,
		forwarder:     forwarder,
		processorType: processorType,
		metrics:       m,
		logger:        slog.Default().With("component", "processor"),
	}
}

// Process enriches req, queues the result for the approver and returns it.
// The returned record does not depend on whether delivery succeeds.
func (p *Processor) Process(ctx context.Context, req loan.Request, processorType string) loan.EnrichedRequest {
	log := p.logger.With("request_id", req.RequestID)
	log.Info("processing loan request",
		"loan_type", req.LoanType,
		"customer_id", req.CustomerID,
		"processor_type", processorType,
	)

	ctx, span := tracing.Start(ctx, "process", req.RequestID)
	defer func() {
		span.End()
		span.Log(p.logger)
	}()

	_, stage := tracing.StartChild(ctx, "credit_lookup")
	creditScore := p.credit.Score(req.CustomerID)
	stage.End()
	log.Info("credit score resolved", "customer_id", req.CustomerID, "credit_score", creditScore)

	_, stage = tracing.StartChild(ctx, "risk_score")
	riskScore := p.scorer.Score(req)
	stage.SetAttr("risk_score", riskScore)
	stage.End()
	log.Info("risk score calculated", "risk_score", riskScore)

	enriched := Enrich(req, creditScore, riskScore, processorType)

	label := loan.TypeLabel(req.LoanType)
	p.metrics.LoansProcessedTotal.WithLabelValues(label, processorType).Inc()
	p.metrics.RiskScore.WithLabelValues(label).Observe(riskScore)

	log.Info("sending processed request to approver", "final_loan_value", enriched.FinalLoanValue)
	_, stage = tracing.StartChild(ctx, "forward")
	p.forwarder.Send(enriched.RequestID, enriched)
	stage.End()
	return enriched
}

// Enrich assembles the enriched record. FinalLoanValue is computed here and
// nowhere else.
func Enrich(req loan.Request, creditScore int, riskScore float64, processorType string) loan.EnrichedRequest {
	return loan.EnrichedRequest{
		RequestID:           req.RequestID,
		LoanType:            req.LoanType,
		LoanRequestedValue:  req.LoanRequestedValue,
		FinalLoanValue:      req.LoanRequestedValue * loan.FinalValueMultiplier,
		LoanItem:            req.LoanItem,
		LoanItemName:        req.LoanItemName,
		CustomerID:          req.CustomerID,
		PartnerName:         req.PartnerName,
		Timestamp:           req.Timestamp,
		RiskLevel:           req.RiskLevel,
		ItemExists:          req.ItemExists,
		CreditScore:         creditScore,
		CalculatedRiskScore: riskScore,
		ProcessorType:       processorType,
	}
}

// HandleMessage returns a Kafka MessageHandler that decodes each message as
// a loan request and processes it. Malformed messages are logged, counted
// and dropped; the handler never asks for redelivery.
func (p *Processor) HandleMessage() kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		p.logger.Info("received loan request", "topic", msg.Topic, "offset", msg.Offset)
		req, err := kafka.DecodeJSON[loan.Request](msg.Value)
		if err != nil {
			p.metrics.MalformedMessagesTotal.WithLabelValues(msg.Topic).Inc()
			p.logger.Error("dropping malformed loan request",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
				"error", err,
			)
			return nil
		}
		p.Process(ctx, req, p.processorType)
		return nil
	}
}

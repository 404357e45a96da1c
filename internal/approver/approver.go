// Package approver turns enriched loan requests into approval results and
// notifies the notifier service of each outcome without waiting for it.
package approver

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/decision"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/tracing"
)

// Notifier delivers an approval result on a best-effort basis.
type Notifier interface {
	Send(requestID string, payload any)
}

// Approver is stateless apart from its collaborators and safe for
// concurrent use.
type Approver struct {
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(notifier Notifier, m *metrics.Metrics) *Approver {
	return &Approver{
		notifier: notifier,
		metrics:  m,
		logger:   slog.Default().With("component", "approver"),
	}
}

// Approve decides req and queues the result for the notifier. The returned
// result is the same whether or not the notification is delivered.
func (a *Approver) Approve(ctx context.Context, req loan.EnrichedRequest) loan.ApprovalResult {
	log := a.logger.With("request_id", req.RequestID)
	log.Info("received loan approval request", "processor_type", req.ProcessorType)

	ctx, span := tracing.Start(ctx, "approve", req.RequestID)
	defer func() {
		span.End()
		span.Log(a.logger)
	}()

	_, stage := tracing.StartChild(ctx, "decide")
	d := decision.Decide(req.CalculatedRiskScore, req.CreditScore)
	stage.SetAttr("final_loan_risk", d.FinalLoanRisk)
	stage.End()

	result := loan.ApprovalResult{
		RequestID:           req.RequestID,
		LoanType:            req.LoanType,
		LoanRequestedValue:  req.LoanRequestedValue,
		FinalLoanValue:      req.FinalLoanValue,
		LoanItem:            req.LoanItem,
		LoanItemName:        req.LoanItemName,
		CustomerID:          req.CustomerID,
		PartnerName:         req.PartnerName,
		Timestamp:           req.Timestamp,
		RiskLevel:           req.RiskLevel,
		ItemExists:          req.ItemExists,
		CreditScore:         req.CreditScore,
		CalculatedRiskScore: req.CalculatedRiskScore,
		FinalLoanRisk:       d.FinalLoanRisk,
		ApprovalStatus:      d.ApprovalStatus,
		InterestAdjustment:  d.InterestAdjustment,
		ProcessorType:       req.ProcessorType,
	}

	a.metrics.DecisionsTotal.WithLabelValues(result.ApprovalStatus.String()).Inc()
	a.metrics.FinalLoanRisk.Observe(result.FinalLoanRisk)
	log.Info("loan decided",
		"approval_status", result.ApprovalStatus.String(),
		"final_loan_risk", result.FinalLoanRisk,
		"credit_score", result.CreditScore,
	)

	_, stage = tracing.StartChild(ctx, "forward")
	a.notifier.Send(result.RequestID, result)
	stage.End()
	return result
}

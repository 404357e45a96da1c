// Package notifier is the terminal stage of the pipeline. It records every
// approval result as a structured LOAN_NOTIFICATION log entry followed by a
// customer-facing message.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
)

// NotificationEvent is the log message that marks a notification record.
const NotificationEvent = "LOAN_NOTIFICATION"

type Notifier struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(m *metrics.Metrics) *Notifier {
	return &Notifier{
		metrics: m,
		logger:  slog.Default().With("component", "notifier"),
	}
}

// Notify logs the notification record and the customer message for result.
func (n *Notifier) Notify(ctx context.Context, result loan.ApprovalResult) {
	log := n.logger.With("request_id", result.RequestID)
	log.Info("received loan notification")

	log.Info(NotificationEvent,
		"customer_id", result.CustomerID,
		"loan_type", result.LoanType,
		"approval_status", result.ApprovalStatus.String(),
		"final_loan_risk", round2(result.FinalLoanRisk),
		"credit_score", result.CreditScore,
		"requested_value", round2(result.LoanRequestedValue),
		"final_value", round2(result.FinalLoanValue),
		"interest_adjustment", result.InterestAdjustment.String(),
	)
	log.Info(Message(result))

	n.metrics.NotificationsTotal.WithLabelValues(result.ApprovalStatus.String()).Inc()
}

// Message renders the customer-facing text for result.
func Message(result loan.ApprovalResult) string {
	switch result.ApprovalStatus {
	case loan.StatusApproved:
		return fmt.Sprintf(
			"LOAN APPROVED - Customer %s: Your %s loan of $%.2f has been APPROVED! "+
				"Final loan amount: $%.2f. Interest rate: %s. Risk score: %.2f",
			result.CustomerID, result.LoanType, result.LoanRequestedValue,
			result.FinalLoanValue, result.InterestAdjustment, result.FinalLoanRisk,
		)
	case loan.StatusHighRisk:
		return fmt.Sprintf(
			"LOAN APPROVED WITH CONDITIONS - Customer %s: Your %s loan of $%.2f has been approved as HIGH RISK. "+
				"Final loan amount: $%.2f. Interest rate: %s. Risk score: %.2f",
			result.CustomerID, result.LoanType, result.LoanRequestedValue,
			result.FinalLoanValue, result.InterestAdjustment, result.FinalLoanRisk,
		)
	default:
		return fmt.Sprintf(
			"LOAN DENIED - Customer %s: Unfortunately, your %s loan request of $%.2f has been DENIED. "+
				"Risk score: %.2f. Credit score: %d",
			result.CustomerID, result.LoanType, result.LoanRequestedValue,
			result.FinalLoanRisk, result.CreditScore,
		)
	}
}

func round2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

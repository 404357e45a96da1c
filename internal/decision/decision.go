// Package decision turns a risk score and credit score into the final loan
// risk and approval verdict.
package decision

import "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"

const (
	maxFinalRisk = 100.0
	creditScale  = 200.0

	deniedMax   = 50.0
	highRiskMax = 70.0
)

// Decision is the outcome for one enriched request.
type Decision struct {
	FinalLoanRisk      float64
	ApprovalStatus     loan.ApprovalStatus
	InterestAdjustment loan.InterestAdjustment
}

// Decide computes finalLoanRisk = min(100, risk × (1 + credit/200)) and maps
// it to a verdict: ≤50 denied, ≤70 high_risk, otherwise approved.
//
// There is no lower clamp. The unknown-customer sentinel (-70) yields a
// multiplier of 0.65, and scores below -200 yield a negative final risk;
// both deny.
func Decide(risk float64, credit int) Decision {
	finalRisk := min(maxFinalRisk, risk*(1+float64(credit)/creditScale))

	switch {
	case finalRisk <= deniedMax:
		return Decision{
			FinalLoanRisk:      finalRisk,
			ApprovalStatus:     loan.StatusDenied,
			InterestAdjustment: loan.AdjustmentNotApplicable,
		}
	case finalRisk <= highRiskMax:
		return Decision{
			FinalLoanRisk:      finalRisk,
			ApprovalStatus:     loan.StatusHighRisk,
			InterestAdjustment: loan.AdjustmentSurcharge,
		}
	default:
		return Decision{
			FinalLoanRisk:      finalRisk,
			ApprovalStatus:     loan.StatusApproved,
			InterestAdjustment: loan.AdjustmentStandard,
		}
	}
}

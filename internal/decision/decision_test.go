package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
)

func TestDecideThresholds(t *testing.T) {
	tests := []struct {
		name       string
		risk       float64
		wantStatus loan.ApprovalStatus
		wantAdj    loan.InterestAdjustment
	}{
		{"exactly 50 denied", 50.0, loan.StatusDenied, loan.AdjustmentNotApplicable},
		{"just above 50 high risk", 50.0001, loan.StatusHighRisk, loan.AdjustmentSurcharge},
		{"exactly 70 high risk", 70.0, loan.StatusHighRisk, loan.AdjustmentSurcharge},
		{"just above 70 approved", 70.0001, loan.StatusApproved, loan.AdjustmentStandard},
		{"zero denied", 0, loan.StatusDenied, loan.AdjustmentNotApplicable},
		{"hundred approved", 100, loan.StatusApproved, loan.AdjustmentStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// credit 0 leaves the multiplier at exactly 1
			d := Decide(tt.risk, 0)
			assert.Equal(t, tt.risk, d.FinalLoanRisk)
			assert.Equal(t, tt.wantStatus, d.ApprovalStatus)
			assert.Equal(t, tt.wantAdj, d.InterestAdjustment)
		})
	}
}

func TestDecideCapsAtHundred(t *testing.T) {
	for _, risk := range []float64{100, 150, 1e6} {
		for _, credit := range []int{0, 1, 590, 750, 800, 10_000} {
			d := Decide(risk, credit)
			assert.Equal(t, 100.0, d.FinalLoanRisk, "risk %v credit %d", risk, credit)
			assert.Equal(t, loan.StatusApproved, d.ApprovalStatus)
		}
	}
}

func TestDecideUnknownCustomerSentinel(t *testing.T) {
	d := Decide(50, -70)
	assert.InDelta(t, 32.5, d.FinalLoanRisk, 1e-9)
	assert.Equal(t, loan.StatusDenied, d.ApprovalStatus)
	assert.Equal(t, "N/A", d.InterestAdjustment.String())
}

func TestDecideNoLowerClamp(t *testing.T) {
	d := Decide(40, -400)
	assert.InDelta(t, -40.0, d.FinalLoanRisk, 1e-9)
	assert.Equal(t, loan.StatusDenied, d.ApprovalStatus)
}

func TestDecideCreditMultiplier(t *testing.T) {
	// 20 × (1 + 590/200) = 79
	d := Decide(20, 590)
	assert.InDelta(t, 79.0, d.FinalLoanRisk, 1e-9)
	assert.Equal(t, loan.StatusApproved, d.ApprovalStatus)
	assert.Equal(t, "standard rate", d.InterestAdjustment.String())

	// 13 × (1 + 800/200) = 65
	d = Decide(13, 800)
	assert.InDelta(t, 65.0, d.FinalLoanRisk, 1e-9)
	assert.Equal(t, loan.StatusHighRisk, d.ApprovalStatus)
	assert.Equal(t, "25% more expensive", d.InterestAdjustment.String())
}

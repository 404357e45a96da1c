package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
)

func TestScoreTiers(t *testing.T) {
	s := NewScorer()
	tests := []struct {
		name     string
		loanType string
		value    float64
		want     float64
	}{
		{"personal minimum", loan.TypePersonal, 100, 70},
		{"personal low tier edge", loan.TypePersonal, 3070, 70},
		{"personal middle tier", loan.TypePersonal, 5000, 50},
		{"personal high tier", loan.TypePersonal, 9000, 20},
		{"personal maximum", loan.TypePersonal, 10_000, 20},
		{"real state low", loan.TypeRealState, 500_000, 70},
		{"real state middle", loan.TypeRealState, 1_500_000, 50},
		{"real state high", loan.TypeRealState, 2_500_000, 20},
		{"vehicle low", loan.TypeVehicle, 25_000, 70},
		{"vehicle middle edge", loan.TypeVehicle, 128_000, 50},
		{"vehicle high", loan.TypeVehicle, 190_000, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(loan.Request{LoanType: tt.loanType, LoanRequestedValue: tt.value})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreOutOfRangeIsZero(t *testing.T) {
	s := NewScorer()
	for loanType, b := range DefaultBounds() {
		for _, value := range []float64{b.Min - 0.01, b.Max + 0.01, 0, -5, b.Max * 10} {
			req := loan.Request{
				LoanType:           loanType,
				LoanRequestedValue: value,
				ItemExists:         loan.Bool(true),
				RiskLevel:          loan.RiskLevelHigh,
			}
			assert.Zero(t, s.Score(req), "%s value %v", loanType, value)
		}
	}
}

func TestScoreUnknownTypeIsZero(t *testing.T) {
	s := NewScorer()
	assert.Zero(t, s.Score(loan.Request{LoanType: "boat", LoanRequestedValue: 5000}))
	assert.Zero(t, s.Score(loan.Request{LoanType: "", LoanRequestedValue: 5000}))
}

func TestItemAdjustment(t *testing.T) {
	s := NewScorer()
	base := loan.Request{LoanType: loan.TypeVehicle, LoanRequestedValue: 25_000}

	assert.Equal(t, 70.0, s.Score(base))

	exists := base
	exists.ItemExists = loan.Bool(true)
	assert.InDelta(t, 84.0, s.Score(exists), 1e-9)

	missing := base
	missing.ItemExists = loan.Bool(false)
	assert.InDelta(t, 45.5, s.Score(missing), 1e-9)

	house := loan.Request{LoanType: loan.TypeRealState, LoanRequestedValue: 2_500_000, ItemExists: loan.Bool(true)}
	assert.InDelta(t, 24.0, s.Score(house), 1e-9)
}

func TestPersonalIgnoresItemExists(t *testing.T) {
	s := NewScorer()
	for _, value := range []float64{100, 2000, 5000, 9000} {
		absent := loan.Request{LoanType: loan.TypePersonal, LoanRequestedValue: value}
		yes := absent
		yes.ItemExists = loan.Bool(true)
		no := absent
		no.ItemExists = loan.Bool(false)

		assert.Equal(t, s.Score(absent), s.Score(yes))
		assert.Equal(t, s.Score(absent), s.Score(no))
	}
}

func TestHighRiskFlag(t *testing.T) {
	s := NewScorer()
	personal := loan.Request{LoanType: loan.TypePersonal, LoanRequestedValue: 5000, RiskLevel: loan.RiskLevelHigh}
	assert.InDelta(t, 42.5, s.Score(personal), 1e-9)

	vehicle := loan.Request{
		LoanType:           loan.TypeVehicle,
		LoanRequestedValue: 25_000,
		ItemExists:         loan.Bool(true),
		RiskLevel:          loan.RiskLevelHigh,
	}
	assert.InDelta(t, 71.4, s.Score(vehicle), 1e-9)

	low := personal
	low.RiskLevel = loan.RiskLevelLow
	assert.Equal(t, 50.0, s.Score(low))
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer()
	req := loan.Request{
		RequestID:          "R-1",
		LoanType:           loan.TypeRealState,
		LoanRequestedValue: 1_234_567.89,
		ItemExists:         loan.Bool(false),
		RiskLevel:          loan.RiskLevelHigh,
	}
	first := s.Score(req)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, NewScorer().Score(req))
	}
}

func TestScoreAlwaysWithinBounds(t *testing.T) {
	s := NewScorer()
	for loanType, b := range DefaultBounds() {
		step := (b.Max - b.Min) / 50
		for v := b.Min; v <= b.Max; v += step {
			for _, exists := range []*bool{nil, loan.Bool(true), loan.Bool(false)} {
				for _, level := range []string{"", loan.RiskLevelHigh} {
					got := s.Score(loan.Request{LoanType: loanType, LoanRequestedValue: v, ItemExists: exists, RiskLevel: level})
					assert.GreaterOrEqual(t, got, MinScore)
					assert.LessOrEqual(t, got, MaxScore)
				}
			}
		}
	}
}

func BenchmarkScore(b *testing.B) {
	s := NewScorer()
	req := loan.Request{
		LoanType:           loan.TypeVehicle,
		LoanRequestedValue: 25_000,
		ItemExists:         loan.Bool(true),
		RiskLevel:          loan.RiskLevelHigh,
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = s.Score(req)
	}
}

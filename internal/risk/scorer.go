// Package risk computes the loan-type-specific risk score (0-100) of a raw
// loan request. Higher scores are better: a score feeds the approver's
// formula, where it is scaled up by the customer's credit score.
package risk

import (
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Tier scores by normalized position of the requested value in its range.
const (
	lowTierMax    = 0.30
	middleTierMax = 0.60

	lowTierScore    = 70.0
	middleTierScore = 50.0
	highTierScore   = 20.0
)

const (
	itemExistsFactor  = 1.20
	itemMissingFactor = 0.65
	highRiskFactor    = 0.85
)

// Bounds is the accepted value range for one loan type. LowThreshold is
// carried for reference only; the tiers depend on position alone.
type Bounds struct {
	Min          float64
	Max          float64
	LowThreshold float64
	// ItemAdjusted reports whether item verification changes the score.
	ItemAdjusted bool
}

// DefaultBounds returns the bounds for the known loan types.
func DefaultBounds() map[string]Bounds {
	return map[string]Bounds{
		loan.TypePersonal:  {Min: 100, Max: 10_000, LowThreshold: 7_000},
		loan.TypeRealState: {Min: 300_000, Max: 3_000_000, LowThreshold: 2_000_000, ItemAdjusted: true},
		loan.TypeVehicle:   {Min: 20_000, Max: 200_000, LowThreshold: 150_000, ItemAdjusted: true},
	}
}

// Scorer is a pure function of its bounds table and the request.
type Scorer struct {
	bounds map[string]Bounds
	logger *slog.Logger
}

// NewScorer returns a Scorer over DefaultBounds.
func NewScorer() *Scorer {
	return &Scorer{
		bounds: DefaultBounds(),
		logger: slog.Default().With("component", "risk-scorer"),
	}
}

// Score returns the request's risk score in [0,100]. Unknown loan types and
// values outside the type's range score 0.
func (s *Scorer) Score(req loan.Request) float64 {
	b, ok := s.bounds[req.LoanType]
	if !ok {
		s.logger.Warn("unknown loan type", "request_id", req.RequestID, "loan_type", req.LoanType)
		return 0
	}

	value := req.LoanRequestedValue
	if value < b.Min || value > b.Max {
		s.logger.Warn("loan value outside valid range",
			"request_id", req.RequestID,
			"loan_type", req.LoanType,
			"value", value,
			"min", b.Min,
			"max", b.Max,
		)
		return 0
	}

	score := tierScore((value - b.Min) / (b.Max - b.Min))

	if b.ItemAdjusted && req.ItemExists != nil {
		if *req.ItemExists {
			score *= itemExistsFactor
		} else {
			score *= itemMissingFactor
		}
	}
	if req.RiskLevel == loan.RiskLevelHigh {
		score *= highRiskFactor
	}

	return clamp(score)
}

func tierScore(position float64) float64 {
	switch {
	case position <= lowTierMax:
		return lowTierScore
	case position <= middleTierMax:
		return middleTierScore
	default:
		return highTierScore
	}
}

func clamp(score float64) float64 {
	return max(MinScore, min(MaxScore, score))
}

// Package creditscore maps customer IDs to credit scores from a fixed table.
// The table is built once and only read afterwards, so lookups from any
// number of goroutines need no locking.
package creditscore

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
)

// UnknownCustomerScore is returned for customers missing from the table. It is
// deliberately outside the normal credit range so the approver's formula
// depresses the final risk instead of failing.
const UnknownCustomerScore = -70

// Lookup is the contract the processor depends on.
type Lookup interface {
	Score(customerID string) int
}

// Table is an immutable customer → score mapping.
type Table struct {
	scores map[string]int
}

// NewTable copies scores into a new Table.
func NewTable(scores map[string]int) *Table {
	return &Table{scores: maps.Clone(scores)}
}

// DefaultScores is the reference data set.
func DefaultScores() map[string]int {
	return map[string]int{
		"CUST-001": 750,
		"CUST-002": 680,
		"CUST-003": 720,
		"CUST-004": 650,
		"CUST-005": 800,
		"CUST-006": 590,
		"CUST-007": 710,
		"CUST-008": 670,
		"CUST-009": 780,
		"CUST-010": 620,
	}
}

// NewDefaultTable returns a Table holding DefaultScores.
func NewDefaultTable() *Table {
	return NewTable(DefaultScores())
}

// Score returns the customer's credit score, or UnknownCustomerScore.
func (t *Table) Score(customerID string) int {
	if score, ok := t.scores[customerID]; ok {
		return score
	}
	return UnknownCustomerScore
}

// Len reports how many customers the table knows.
func (t *Table) Len() int {
	return len(t.scores)
}

// HashReader reads every field of a hash. *redis.Client satisfies it.
type HashReader interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// LoadFromHash builds a Table from a hash of customer ID → score, layered
// over base. Fields whose value is not an integer are skipped with a warning.
// The hash is read once; later changes in the store are not observed.
func LoadFromHash(ctx context.Context, src HashReader, key string, base map[string]int) (*Table, error) {
	fields, err := src.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading credit scores: %w", err)
	}
	logger := slog.Default().With("component", "credit-score")
	scores := maps.Clone(base)
	if scores == nil {
		scores = make(map[string]int, len(fields))
	}
	for customerID, raw := range fields {
		score, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("skipping non-numeric credit score",
				"customer_id", customerID,
				"value", raw,
			)
			continue
		}
		scores[customerID] = score
	}
	logger.Info("credit scores loaded", "key", key, "customers", len(scores))
	return &Table{scores: scores}, nil
}

package router

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
)

// ValidationError lists the required fields a request was missing, in a
// stable order.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// Validate checks that req carries every field the pipeline needs. A
// non-positive requested value counts as missing.
func Validate(req *loan.Request) error {
	var missing []string
	if strings.TrimSpace(req.LoanType) == "" {
		missing = append(missing, "loan_type")
	}
	if req.LoanRequestedValue <= 0 {
		missing = append(missing, "loan_requested_value")
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		missing = append(missing, "customer_id")
	}
	if strings.TrimSpace(req.PartnerName) == "" {
		missing = append(missing, "partner_name")
	}
	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}
	return nil
}

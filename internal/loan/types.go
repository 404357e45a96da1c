// Package loan defines the records that flow through the decision pipeline:
// the raw request consumed from Kafka, the enriched request the processor
// sends to the approver, and the approval result the approver sends to the
// notifier. Records are passed by value and never mutated after construction.
package loan

// Known loan types. Type is an open set: any other value is a valid request
// that simply scores 0.
const (
	TypePersonal  = "personal"
	TypeRealState = "real_state"
	TypeVehicle   = "vehicle"
)

// RiskLevelHigh flags a request whose item could not be verified.
const (
	RiskLevelHigh = "high_risk"
	RiskLevelLow  = "low_risk"
)

// FinalValueMultiplier inflates the requested value into the final loan value.
const FinalValueMultiplier = 1.40

// Request is a raw loan application as published on the loan topics.
type Request struct {
	RequestID          string  `json:"request_id"`
	LoanType           string  `json:"loan_type"`
	LoanRequestedValue float64 `json:"loan_requested_value"`
	LoanItem           string  `json:"loan_item"`
	LoanItemName       string  `json:"loan_item_name"`
	CustomerID         string  `json:"customer_id"`
	PartnerName        string  `json:"partner_name"`
	Timestamp          string  `json:"timestamp"`
	RiskLevel          string  `json:"risk_level"`
	// ItemExists is nil when item verification does not apply.
	ItemExists *bool `json:"item_exists,omitempty"`
}

// EnrichedRequest is a Request plus the processor's derived fields.
type EnrichedRequest struct {
	RequestID           string  `json:"request_id"`
	LoanType            string  `json:"loan_type"`
	LoanRequestedValue  float64 `json:"loan_requested_value"`
	FinalLoanValue      float64 `json:"final_loan_value"`
	LoanItem            string  `json:"loan_item"`
	LoanItemName        string  `json:"loan_item_name"`
	CustomerID          string  `json:"customer_id"`
	PartnerName         string  `json:"partner_name"`
	Timestamp           string  `json:"timestamp"`
	RiskLevel           string  `json:"risk_level"`
	ItemExists          *bool   `json:"item_exists,omitempty"`
	CreditScore         int     `json:"credit_score"`
	CalculatedRiskScore float64 `json:"calculated_risk_score"`
	ProcessorType       string  `json:"processor_type"`
}

// ApprovalResult is the terminal record of the pipeline.
type ApprovalResult struct {
	RequestID           string             `json:"request_id"`
	LoanType            string             `json:"loan_type"`
	LoanRequestedValue  float64            `json:"loan_requested_value"`
	FinalLoanValue      float64            `json:"final_loan_value"`
	LoanItem            string             `json:"loan_item"`
	LoanItemName        string             `json:"loan_item_name"`
	CustomerID          string             `json:"customer_id"`
	PartnerName         string             `json:"partner_name"`
	Timestamp           string             `json:"timestamp"`
	RiskLevel           string             `json:"risk_level"`
	ItemExists          *bool              `json:"item_exists,omitempty"`
	CreditScore         int                `json:"credit_score"`
	CalculatedRiskScore float64            `json:"calculated_risk_score"`
	FinalLoanRisk       float64            `json:"final_loan_risk"`
	ApprovalStatus      ApprovalStatus     `json:"approval_status"`
	InterestAdjustment  InterestAdjustment `json:"interest_adjustment"`
	ProcessorType       string             `json:"processor_type"`
}

// Bool returns a pointer to v, for building requests with ItemExists set.
func Bool(v bool) *bool {
	return &v
}

// TypeLabel collapses unknown loan types to "unknown" for use as a metric
// label.
func TypeLabel(loanType string) string {
	switch loanType {
	case TypePersonal, TypeRealState, TypeVehicle:
		return loanType
	default:
		return "unknown"
	}
}

package loan

import (
	"encoding/json"
	"fmt"
)

// ApprovalStatus is the closed set of approval verdicts.
type ApprovalStatus int

const (
	StatusDenied ApprovalStatus = iota
	StatusHighRisk
	StatusApproved
)

var statusNames = map[ApprovalStatus]string{
	StatusDenied:   "denied",
	StatusHighRisk: "high_risk",
	StatusApproved: "approved",
}

func (s ApprovalStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ApprovalStatus(%d)", int(s))
}

func (s ApprovalStatus) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown approval status %d", int(s))
	}
	return json.Marshal(name)
}

func (s *ApprovalStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for status, n := range statusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown approval status %q", name)
}

// InterestAdjustment is the closed set of rate adjustments tied to a verdict.
type InterestAdjustment int

const (
	AdjustmentNotApplicable InterestAdjustment = iota
	AdjustmentSurcharge
	AdjustmentStandard
)

var adjustmentNames = map[InterestAdjustment]string{
	AdjustmentNotApplicable: "N/A",
	AdjustmentSurcharge:     "25% more expensive",
	AdjustmentStandard:      "standard rate",
}

func (a InterestAdjustment) String() string {
	if name, ok := adjustmentNames[a]; ok {
		return name
	}
	return fmt.Sprintf("InterestAdjustment(%d)", int(a))
}

func (a InterestAdjustment) MarshalJSON() ([]byte, error) {
	name, ok := adjustmentNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown interest adjustment %d", int(a))
	}
	return json.Marshal(name)
}

func (a *InterestAdjustment) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for adj, n := range adjustmentNames {
		if n == name {
			*a = adj
			return nil
		}
	}
	return fmt.Errorf("unknown interest adjustment %q", name)
}

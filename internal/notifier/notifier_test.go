package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
)

func result(status loan.ApprovalStatus, adj loan.InterestAdjustment) loan.ApprovalResult {
	return loan.ApprovalResult{
		RequestID:          "REQ-9",
		LoanType:           loan.TypePersonal,
		LoanRequestedValue: 5000,
		FinalLoanValue:     7000,
		CustomerID:         "CUST-002",
		CreditScore:        680,
		FinalLoanRisk:      63.456,
		ApprovalStatus:     status,
		InterestAdjustment: adj,
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name   string
		result loan.ApprovalResult
		want   string
	}{
		{
			name:   "approved",
			result: result(loan.StatusApproved, loan.AdjustmentStandard),
			want: "LOAN APPROVED - Customer CUST-002: Your personal loan of $5000.00 has been APPROVED! " +
				"Final loan amount: $7000.00. Interest rate: standard rate. Risk score: 63.46",
		},
		{
			name:   "high risk",
			result: result(loan.StatusHighRisk, loan.AdjustmentSurcharge),
			want: "LOAN APPROVED WITH CONDITIONS - Customer CUST-002: Your personal loan of $5000.00 has been approved as HIGH RISK. " +
				"Final loan amount: $7000.00. Interest rate: 25% more expensive. Risk score: 63.46",
		},
		{
			name:   "denied",
			result: result(loan.StatusDenied, loan.AdjustmentNotApplicable),
			want: "LOAN DENIED - Customer CUST-002: Unfortunately, your personal loan request of $5000.00 has been DENIED. " +
				"Risk score: 63.46. Credit score: 680",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.result))
		})
	}
}

func TestNotifyLogsRecord(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	m := metrics.NewNop()
	New(m).Notify(context.Background(), result(loan.StatusHighRisk, loan.AdjustmentSurcharge))

	out := buf.String()
	assert.Contains(t, out, `"msg":"LOAN_NOTIFICATION"`)
	assert.Contains(t, out, `"request_id":"REQ-9"`)
	assert.Contains(t, out, `"approval_status":"high_risk"`)
	assert.Contains(t, out, `"final_loan_risk":"63.46"`)
	assert.Contains(t, out, "LOAN APPROVED WITH CONDITIONS")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("high_risk")))
}

func TestHandlerNotify(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(New(metrics.NewNop())).Routes(mux)

	body, err := json.Marshal(result(loan.StatusApproved, loan.AdjustmentStandard))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notify", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"status":"success","request_id":"REQ-9","message":"Notification logged successfully"}`,
		rec.Body.String())
}

func TestHandlerNotifyRejectsBadJSON(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(New(metrics.NewNop())).Routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestHandlerNotifyRejectsUnknownStatus(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(New(metrics.NewNop())).Routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notify",
		strings.NewReader(`{"request_id":"REQ-1","approval_status":"maybe"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerHealth(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(New(metrics.NewNop())).Routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.JSONEq(t, `{"status":"healthy","service":"loan-notifier"}`, rec.Body.String())
}

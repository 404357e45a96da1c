package approver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/health"
)

// ServiceName is reported by GET /health.
const ServiceName = "loan-approver"

type Handler struct {
	approver *Approver
	logger   *slog.Logger
}

func NewHandler(a *Approver) *Handler {
	return &Handler{
		approver: a,
		logger:   slog.Default().With("component", "approver-handler"),
	}
}

// Routes registers the approver endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", health.ServiceHandler(ServiceName))
	mux.HandleFunc("POST /approve", h.Approve)
}

// Approve decides the enriched request in the body and returns the result
// synchronously.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req loan.EnrichedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("rejecting malformed approval request", "error", err)
		h.writeError(w, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid JSON body: %v", err))
		return
	}
	result := h.approver.Approve(r.Context(), req)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err *apperrors.AppError) {
	h.writeJSON(w, apperrors.HTTPStatusCode(err), map[string]string{
		"status":  "error",
		"message": err.Message,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

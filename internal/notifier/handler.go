package notifier

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/health"
)

// ServiceName is reported by GET /health.
const ServiceName = "loan-notifier"

// Response is the acknowledgement returned by POST /notify.
type Response struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message"`
}

type Handler struct {
	notifier *Notifier
	logger   *slog.Logger
}

func NewHandler(n *Notifier) *Handler {
	return &Handler{
		notifier: n,
		logger:   slog.Default().With("component", "notifier-handler"),
	}
}

// Routes registers the notifier endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", health.ServiceHandler(ServiceName))
	mux.HandleFunc("POST /notify", h.Notify)
}

func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var result loan.ApprovalResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.logger.Error("error processing notification", "error", err)
		appErr := apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, err.Error())
		h.writeJSON(w, apperrors.HTTPStatusCode(appErr), Response{Status: "error", Message: appErr.Message})
		return
	}
	h.notifier.Notify(r.Context(), result)
	h.writeJSON(w, http.StatusOK, Response{
		Status:    "success",
		RequestID: result.RequestID,
		Message:   "Notification logged successfully",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

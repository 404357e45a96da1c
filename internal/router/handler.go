package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/loan"
	apperrors "github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/logger"
)

// ServiceName is reported by GET /health.
const ServiceName = "loan-router"

type Handler struct {
	router *Router
	logger *slog.Logger
}

func NewHandler(r *Router) *Handler {
	return &Handler{
		router: r,
		logger: slog.Default().With("component", "router-handler"),
	}
}

// Routes registers the intake endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", health.ServiceHandler(ServiceName))
	mux.HandleFunc("POST /route", h.Route)
}

func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req loan.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid JSON body",
		})
		return
	}
	log.Info("routing loan request", "loan_type", req.LoanType, "customer_id", req.CustomerID)

	if err := Validate(&req); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			log.Warn("loan request validation failed", "missing_fields", validationErr.MissingFields)
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"status":         "failed",
				"message":        "Invalid request",
				"missing_fields": validationErr.MissingFields,
			})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failed", "message": err.Error()})
		return
	}

	res, err := h.router.Route(ctx, req)
	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		message := "Failed to send to Kafka"
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		log.Error("routing failed",
			"request_id", res.RequestID,
			"error", err,
			"status_code", statusCode,
		)
		h.writeJSON(w, statusCode, map[string]string{"status": "error", "message": message})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":     "success",
		"request_id": res.RequestID,
		"topic":      res.Topic,
		"risk_level": res.RiskLevel,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

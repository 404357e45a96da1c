// Command approver starts the loan approval HTTP service.
//
// POST /approve decides an enriched loan request and returns the approval
// result synchronously; the result is then forwarded to the notifier in the
// background. GET /health reports a fixed status payload.
//
// Usage:
//
//	go run ./cmd/approver [-config configs/approver.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/approver"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/handoff"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/approver.yaml", "path to config file")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting approver service", "port", cfg.Server.Port, "notifier_url", cfg.Approver.NotifierURL)

	m := metrics.New(prometheus.DefaultRegisterer)
	notifierURL := strings.TrimRight(cfg.Approver.NotifierURL, "/") + "/notify"
	dispatcher := handoff.New(handoff.FromConfig("notifier", notifierURL, cfg.Handoff), &http.Client{}, m)
	defer dispatcher.Close()

	h := approver.NewHandler(approver.New(dispatcher, m))
	mux := http.NewServeMux()
	h.Routes(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.Chain(mux, m, cfg.Server.RequestTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()
	slog.Info("approver service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("approver service stopped")
}

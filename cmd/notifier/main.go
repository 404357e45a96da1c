// Command notifier starts the loan notification HTTP service. POST /notify
// logs each approval result as a LOAN_NOTIFICATION record followed by the
// customer-facing message.
//
// Usage:
//
//	go run ./cmd/notifier [-config configs/notifier.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/notifier"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/notifier.yaml", "path to config file")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting notifier service", "port", cfg.Server.Port)

	m := metrics.New(prometheus.DefaultRegisterer)
	h := notifier.NewHandler(notifier.New(m))
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
	slog.Info("notifier service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("notifier service stopped")
}

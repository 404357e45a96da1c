// Command router starts the loan intake HTTP service.
//
// POST /route validates a loan request, checks its item against the catalog,
// and publishes it to the Kafka topic for its loan type, keyed by request ID.
//
// Usage:
//
//	go run ./cmd/router [-config configs/router.yaml]
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

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/router"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/router.yaml", "path to config file")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting router service", "port", cfg.Server.Port, "brokers", cfg.Kafka.Brokers)

	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()
	slog.Info("kafka producer initialized", "topics", cfg.Kafka.Topics.All())

	m := metrics.New(prometheus.DefaultRegisterer)
	rt := router.New(router.DefaultCatalog(), cfg.Kafka.Topics, producer, cfg.Router.PublishTimeout, m)
	h := router.NewHandler(rt)
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
	slog.Info("router service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("router service stopped")
}

// Command processor consumes loan requests from Kafka, enriches each with a
// credit score, risk score and final loan value, and hands the enriched
// request to the approver service.
//
// Usage:
//
//	go run ./cmd/processor [-config configs/processor.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/creditscore"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/handoff"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/processor"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/internal/risk"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/loan-decision-pipeline/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/processor.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting processor service",
		"processor_type", cfg.Processor.Type,
		"topics", cfg.Processor.Topics,
	)
	if len(cfg.Processor.Topics) == 0 {
		slog.Error("no topics configured for processor")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	checker := health.NewChecker()

	scores := creditscore.NewDefaultTable()
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		scores, err = creditscore.LoadFromHash(ctx, rdb, cfg.Redis.CreditScoreKey, creditscore.DefaultScores())
		if err != nil {
			slog.Error("failed to seed credit scores from redis", "error", err)
			os.Exit(1)
		}
		slog.Info("credit scores seeded from redis", "key", cfg.Redis.CreditScoreKey, "customers", scores.Len())
		checker.Register("redis", health.PingCheck(rdb.Ping))
	}

	approverURL := strings.TrimRight(cfg.Processor.ApproverURL, "/")
	client := &http.Client{}
	dispatcher := handoff.New(handoff.FromConfig("approver", approverURL+"/approve", cfg.Handoff), client, m)
	defer dispatcher.Close()
	checker.Register("approver", health.HTTPCheck(client, approverURL+"/health"))

	proc := processor.New(scores, risk.NewScorer(), dispatcher, cfg.Processor.Type, m)
	handler := proc.HandleMessage()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.Metrics.Port, map[string]http.HandlerFunc{
				"GET /health/live":  health.ServiceHandler(processor.ServiceName),
				"GET /health/ready": checker.ReadyHandler(),
			})
		})
	}
	for _, topic := range cfg.Processor.Topics {
		consumer := kafka.NewConsumer(cfg.Kafka, topic, handler)
		g.Go(func() error {
			slog.Info("consuming loan requests", "topic", consumer.Topic(), "group", cfg.Kafka.ConsumerGroup)
			return consumer.Start(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("processor stopped with error", "error", err)
	}
	slog.Info("processor service stopped")
}

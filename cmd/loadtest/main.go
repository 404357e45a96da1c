// Command loadtest drives the intake service with synthetic loan requests at
// a fixed aggregate rate and prints a latency and status-code report.
//
// Usage:
//
//	go run ./cmd/loadtest [-url http://localhost:5000] [-rate 10] [-duration 30s]
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type runConfig struct {
	target      string
	concurrency int
	rate        float64
	duration    time.Duration
}

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "base URL of the loan router")
	concurrency := flag.Int("concurrency", 4, "number of concurrent workers")
	rate := flag.Float64("rate", 1, "requests per second across all workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	invalidPct := flag.Float64("invalid-pct", 10, "percentage of requests missing required fields")
	invalidItemPct := flag.Float64("invalid-item-pct", 15, "percentage of item-backed loans with an unknown item")
	partners := flag.String("partners", "BankCorp,LoanMasters,QuickCredit,PrimeLending", "comma-separated partner names")
	flag.Parse()

	if *rate <= 0 || *concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "rate and concurrency must be positive")
		os.Exit(1)
	}

	cfg := runConfig{
		target:      strings.TrimRight(*baseURL, "/") + "/route",
		concurrency: *concurrency,
		rate:        *rate,
		duration:    *duration,
	}
	seed := uint64(time.Now().UnixNano())
	gen := NewGenerator(rand.New(rand.NewPCG(seed, seed>>1)), strings.Split(*partners, ","), *invalidPct, *invalidItemPct)

	fmt.Printf("loan load test: %s at %.2f req/s for %s (%d workers, %.0f%% invalid, %.0f%% unknown items)\n",
		cfg.target, cfg.rate, cfg.duration, cfg.concurrency, *invalidPct, *invalidItemPct)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	rec := newRecorder()
	run(ctx, cfg, gen, rec)
	summary := rec.summarize(cfg.duration)
	summary.write(os.Stdout)
	if summary.total == 0 {
		fmt.Println("no requests completed; is the router running?")
		os.Exit(1)
	}
}

// run paces request bodies from a single producer and lets the workers post
// them until ctx expires.
func run(ctx context.Context, cfg runConfig, gen *Generator, rec *recorder) {
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: cfg.concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	bodies := make(chan []byte, cfg.concurrency)
	var g errgroup.Group
	g.Go(func() error {
		defer close(bodies)
		tick := time.NewTicker(time.Duration(float64(time.Second) / cfg.rate))
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
			}
			body, err := json.Marshal(gen.Next())
			if err != nil {
				return err
			}
			select {
			case bodies <- body:
			case <-ctx.Done():
				return nil
			}
		}
	})
	for range cfg.concurrency {
		g.Go(func() error {
			for body := range bodies {
				start := time.Now()
				code, err := post(ctx, client, cfg.target, body)
				rec.record(time.Since(start), code, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "load generator stopped:", err)
	}
}

func post(ctx context.Context, client *http.Client, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Package health serves the fixed service payload the loan services answer on
// GET /health, and a readiness checker that probes downstream dependencies.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the state of one dependency or of the service as a whole.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// severity orders statuses so the worst one can be picked.
func (s Status) severity() int {
	switch s {
	case StatusUp:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check probes a single dependency.
type Check func(ctx context.Context) ComponentHealth

// ComponentHealth is the outcome of one Check.
type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Report aggregates every registered check.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

type probe struct {
	name  string
	check Check
}

// Checker holds the readiness probes of a service in registration order.
type Checker struct {
	mu     sync.RWMutex
	probes []probe
	budget time.Duration
}

// NewChecker returns a Checker whose readiness endpoint gives all probes
// five seconds in total.
func NewChecker() *Checker {
	return &Checker{budget: 5 * time.Second}
}

// Register adds a probe. Registering an existing name replaces it.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.probes {
		if c.probes[i].name == name {
			c.probes[i].check = check
			return
		}
	}
	c.probes = append(c.probes, probe{name: name, check: check})
}

// Run executes every probe concurrently. The report status is the worst
// component status; with no probes registered the service is up.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	probes := append([]probe(nil), c.probes...)
	c.mu.RUnlock()

	results := make([]ComponentHealth, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			start := time.Now()
			res := p.check(ctx)
			res.Latency = time.Since(start).Round(time.Millisecond).String()
			results[i] = res
			return nil
		})
	}
	g.Wait()

	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(probes)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	for i, p := range probes {
		report.Components[p.name] = results[i]
		if results[i].Status.severity() > report.Status.severity() {
			report.Status = results[i].Status
		}
	}
	return report
}

// ReadyHandler answers 200 with the report when every probe is up and 503
// otherwise.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), c.budget)
		defer cancel()
		report := c.Run(ctx)
		code := http.StatusOK
		if report.Status != StatusUp {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, report)
	}
}

// ServiceStatus is the fixed body served on GET /health.
type ServiceStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ServiceHandler answers with {"status":"healthy","service":<service>}. It
// never consults dependencies: a running process is a healthy one.
func ServiceHandler(service string) http.HandlerFunc {
	body := ServiceStatus{Status: "healthy", Service: service}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}

// HTTPCheck probes url with a GET and reports down on transport errors or
// non-2xx responses.
func HTTPCheck(client *http.Client, url string) Check {
	return func(ctx context.Context) ComponentHealth {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		resp, err := client.Do(req)
		if err != nil {
			return ComponentHealth{Status: StatusDown, Message: err.Error()}
		}
		resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			return ComponentHealth{Status: StatusDown, Message: resp.Status}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

// PingCheck adapts a ping function, such as a Redis client's, into a Check
// that reports degraded instead of down: the caller can still serve traffic
// without the dependency.
func PingCheck(ping func(context.Context) error) Check {
	return func(ctx context.Context) ComponentHealth {
		if err := ping(ctx); err != nil {
			return ComponentHealth{Status: StatusDegraded, Message: err.Error()}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

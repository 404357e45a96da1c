package main

import (
	"fmt"
	"io"
	"maps"
	"math"
	"net/http"
	"slices"
	"sync"
	"time"
)

// recorder collects per-request outcomes from the workers.
type recorder struct {
	mu        sync.Mutex
	latencies []time.Duration
	codes     map[int]int
	transport int
}

func newRecorder() *recorder {
	return &recorder{codes: make(map[int]int)}
}

// record tallies one attempt. A non-nil err is a transport failure and has no
// status code or latency sample.
func (r *recorder) record(latency time.Duration, code int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.transport++
		return
	}
	r.codes[code]++
	r.latencies = append(r.latencies, latency)
}

type summary struct {
	elapsed   time.Duration
	total     int
	routed    int
	rejected  int
	failed    int
	codes     map[int]int
	latencies []time.Duration
}

// summarize classifies responses: 2xx were routed, 400 were rejected at
// intake on purpose, everything else counts as a failure.
func (r *recorder) summarize(elapsed time.Duration) summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := summary{
		elapsed:   elapsed,
		failed:    r.transport,
		codes:     maps.Clone(r.codes),
		latencies: slices.Clone(r.latencies),
	}
	slices.Sort(s.latencies)
	for code, n := range r.codes {
		switch {
		case code/100 == 2:
			s.routed += n
		case code == http.StatusBadRequest:
			s.rejected += n
		default:
			s.failed += n
		}
	}
	s.total = s.routed + s.rejected + s.failed
	return s
}

func (s summary) write(w io.Writer) {
	fmt.Fprintf(w, "\nrequests %d  routed %d  rejected %d  failed %d\n", s.total, s.routed, s.rejected, s.failed)
	if s.total > 0 && s.elapsed > 0 {
		fmt.Fprintf(w, "throughput %.2f req/s  failure rate %.2f%%\n",
			float64(s.total)/s.elapsed.Seconds(), float64(s.failed)/float64(s.total)*100)
	}
	if n := len(s.latencies); n > 0 {
		var sum time.Duration
		for _, l := range s.latencies {
			sum += l
		}
		fmt.Fprintf(w, "latency min %s  avg %s  p50 %s  p95 %s  p99 %s  max %s\n",
			s.latencies[0], sum/time.Duration(n),
			percentile(s.latencies, 50), percentile(s.latencies, 95), percentile(s.latencies, 99),
			s.latencies[n-1])
	}
	for _, code := range slices.Sorted(maps.Keys(s.codes)) {
		fmt.Fprintf(w, "  %d: %d\n", code, s.codes[code])
	}
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	return sorted[max(0, min(idx, len(sorted)-1))]
}

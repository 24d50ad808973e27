// Package stats aggregates outbound latency and outcome counts for executions.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Collector is safe for concurrent use by in-flight executions.
type Collector struct {
	mu sync.Mutex

	total atomic.Int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram
	outcomes  map[string]int64

	startTime time.Time
}

// Summary is a point-in-time view of a Collector.
type Summary struct {
	Total    int64            `json:"total"`
	Outcomes map[string]int64 `json:"outcomes"`
	Latency  Latency          `json:"latency"`
	Uptime   string           `json:"uptime"`
}

// Latency holds latency percentiles in milliseconds.
type Latency struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		outcomes:  make(map[string]int64),
		startTime: time.Now(),
	}
}

// Observe records one execution's outcome and outbound duration.
func (c *Collector) Observe(outcome string, duration time.Duration) {
	c.total.Add(1)

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	c.mu.Lock()
	_ = c.histogram.RecordValue(latencyUs)
	c.outcomes[outcome]++
	c.mu.Unlock()
}

// Summary returns the current totals and latency percentiles.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcomes := make(map[string]int64, len(c.outcomes))
	for k, v := range c.outcomes {
		outcomes[k] = v
	}

	s := Summary{
		Total:    c.total.Load(),
		Outcomes: outcomes,
		Uptime:   time.Since(c.startTime).Round(time.Second).String(),
	}

	if c.histogram.TotalCount() > 0 {
		s.Latency = Latency{
			Min:  usToMs(c.histogram.Min()),
			Mean: c.histogram.Mean() / 1000,
			P50:  usToMs(c.histogram.ValueAtQuantile(50)),
			P95:  usToMs(c.histogram.ValueAtQuantile(95)),
			P99:  usToMs(c.histogram.ValueAtQuantile(99)),
			Max:  usToMs(c.histogram.Max()),
		}
	}

	return s
}

func usToMs(us int64) float64 {
	return float64(us) / 1000
}

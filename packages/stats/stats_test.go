package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector()

	c.Observe("Success", 10*time.Millisecond)
	c.Observe("Success", 20*time.Millisecond)
	c.Observe("ApiRequestFailed", 30*time.Millisecond)

	s := c.Summary()
	assert.Equal(t, int64(3), s.Total)
	assert.Equal(t, int64(2), s.Outcomes["Success"])
	assert.Equal(t, int64(1), s.Outcomes["ApiRequestFailed"])
	assert.InDelta(t, 10, s.Latency.Min, 0.1)
	assert.InDelta(t, 30, s.Latency.Max, 0.1)
	assert.InDelta(t, 20, s.Latency.P50, 0.1)
}

func TestCollector_ClampsDurations(t *testing.T) {
	c := NewCollector()

	c.Observe("Success", 0)
	c.Observe("ExecutionFailed", 2*time.Minute)

	s := c.Summary()
	assert.Equal(t, int64(2), s.Total)
	assert.InDelta(t, 0.001, s.Latency.Min, 0.001)
	assert.InDelta(t, 60_000, s.Latency.Max, 60)
}

func TestCollector_EmptySummary(t *testing.T) {
	s := NewCollector().Summary()

	assert.Equal(t, int64(0), s.Total)
	assert.Empty(t, s.Outcomes)
	assert.Zero(t, s.Latency.P99)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Observe("Success", time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.Summary().Total)
	assert.Equal(t, int64(50), c.Summary().Outcomes["Success"])
}

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return &Metrics{
		StartTime:         time.Now(),
		EndpointCounts:    make(map[string]int64),
		EndpointLatencies: make(map[string]int64),
		StatusCodes:       make(map[int]int64),
	}
}

func TestSnapshot_DerivedRates(t *testing.T) {
	m := newTestMetrics()
	m.record("GET /forms", 200, 10)
	m.record("GET /forms", 200, 30)
	m.record("POST /forms", 500, 20)

	snap := m.Snapshot()

	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
	assert.InDelta(t, 100.0/3, snap.ErrorRate, 0.01)
	assert.Equal(t, 20.0, snap.AvgLatencyMs)
	assert.Equal(t, int64(30), snap.MaxLatencyMs)
	assert.Equal(t, int64(2), snap.EndpointCounts["GET /forms"])
	assert.Equal(t, int64(20), snap.EndpointAvgMs["GET /forms"])
	assert.Equal(t, int64(2), snap.StatusCodes[200])
	assert.Equal(t, int64(1), snap.StatusCodes[500])
}

func TestSnapshot_EmptyHasNoRates(t *testing.T) {
	snap := newTestMetrics().Snapshot()

	assert.Zero(t, snap.TotalRequests)
	assert.Zero(t, snap.AvgLatencyMs)
	assert.Zero(t, snap.ErrorRate)
	assert.Empty(t, snap.EndpointCounts)
}

func TestSnapshot_CopiesMaps(t *testing.T) {
	m := newTestMetrics()
	m.record("GET /health", 200, 5)

	snap := m.Snapshot()
	snap.EndpointCounts["GET /health"] = 99
	snap.StatusCodes[200] = 99

	assert.Equal(t, int64(1), m.Snapshot().EndpointCounts["GET /health"])
	assert.Equal(t, int64(1), m.Snapshot().StatusCodes[200])
}

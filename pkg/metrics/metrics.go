package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics accumulates request counters for the lifetime of the process.
// Scalar fields are updated with atomics; the maps require mu.
type Metrics struct {
	TotalRequests     int64            `json:"total_requests"`
	ActiveRequests    int64            `json:"active_requests"`
	TotalErrors       int64            `json:"total_errors"`
	TotalLatencyMs    int64            `json:"total_latency_ms"`
	MaxLatencyMs      int64            `json:"max_latency_ms"`
	StartTime         time.Time        `json:"start_time"`
	EndpointCounts    map[string]int64 `json:"endpoint_counts"`
	EndpointLatencies map[string]int64 `json:"endpoint_latencies"`
	StatusCodes       map[int]int64    `json:"status_codes"`
	mu                sync.Mutex
}

var (
	globalMetrics *Metrics
	once          sync.Once
)

// GetMetrics returns the process-wide metrics instance.
func GetMetrics() *Metrics {
	once.Do(func() {
		globalMetrics = &Metrics{
			StartTime:         time.Now(),
			EndpointCounts:    make(map[string]int64),
			EndpointLatencies: make(map[string]int64),
			StatusCodes:       make(map[int]int64),
		}
	})
	return globalMetrics
}

func (m *Metrics) record(endpoint string, status int, latencyMs int64) {
	atomic.AddInt64(&m.TotalRequests, 1)
	atomic.AddInt64(&m.TotalLatencyMs, latencyMs)
	if status >= 400 {
		atomic.AddInt64(&m.TotalErrors, 1)
	}

	// CAS loop keeps the max without taking the mutex.
	for {
		current := atomic.LoadInt64(&m.MaxLatencyMs)
		if latencyMs <= current || atomic.CompareAndSwapInt64(&m.MaxLatencyMs, current, latencyMs) {
			break
		}
	}

	m.mu.Lock()
	m.EndpointCounts[endpoint]++
	m.EndpointLatencies[endpoint] += latencyMs
	m.StatusCodes[status]++
	m.mu.Unlock()
}

// MetricsMiddleware counts every request: totals, in-flight, per-endpoint
// latency and status code distribution.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m := GetMetrics()

			atomic.AddInt64(&m.ActiveRequests, 1)
			start := time.Now()

			err := next(c)

			latencyMs := time.Since(start).Milliseconds()
			atomic.AddInt64(&m.ActiveRequests, -1)

			// Prefer the route pattern so path params collapse into one key.
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			m.record(fmt.Sprintf("%s %s", c.Request().Method, path), c.Response().Status, latencyMs)

			return err
		}
	}
}

// MetricsSnapshot is a consistent read of the counters with derived rates.
type MetricsSnapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	ErrorRate      float64          `json:"error_rate_pct"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	RequestsPerSec float64          `json:"requests_per_sec"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

// Snapshot copies the counters out so callers never see the live maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	total := atomic.LoadInt64(&m.TotalRequests)
	errors := atomic.LoadInt64(&m.TotalErrors)
	totalLatency := atomic.LoadInt64(&m.TotalLatencyMs)
	uptime := time.Since(m.StartTime).Seconds()

	snap := MetricsSnapshot{
		TotalRequests:  total,
		ActiveRequests: atomic.LoadInt64(&m.ActiveRequests),
		TotalErrors:    errors,
		MaxLatencyMs:   atomic.LoadInt64(&m.MaxLatencyMs),
		UptimeSeconds:  uptime,
	}
	if total > 0 {
		snap.AvgLatencyMs = float64(totalLatency) / float64(total)
		snap.ErrorRate = float64(errors) / float64(total) * 100
	}
	if uptime > 0 {
		snap.RequestsPerSec = float64(total) / uptime
	}

	m.mu.Lock()
	snap.EndpointCounts = make(map[string]int64, len(m.EndpointCounts))
	snap.EndpointAvgMs = make(map[string]int64, len(m.EndpointLatencies))
	for endpoint, count := range m.EndpointCounts {
		snap.EndpointCounts[endpoint] = count
		if count > 0 {
			snap.EndpointAvgMs[endpoint] = m.EndpointLatencies[endpoint] / count
		}
	}
	snap.StatusCodes = make(map[int]int64, len(m.StatusCodes))
	for code, count := range m.StatusCodes {
		snap.StatusCodes[code] = count
	}
	m.mu.Unlock()

	return snap
}

// RegisterMetricsRoute exposes the counters at GET /metrics/requests.
func RegisterMetricsRoute(e *echo.Echo) {
	e.GET("/metrics/requests", func(c echo.Context) error {
		return c.JSON(http.StatusOK, GetMetrics().Snapshot())
	})
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records outbound API traffic and cache effectiveness.
type ClientMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes prometheus.Counter
	cacheHit  *prometheus.CounterVec
	cacheMiss *prometheus.CounterVec
}

// NewClientMetrics registers the client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Outbound API requests by method, path template and status.",
	}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of outbound API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	refreshes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "api_token_refreshes_total",
		Help: "Access token refresh attempts triggered by 401 responses.",
	})
	cacheHit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache reads served without a network round-trip.",
	}, []string{"resource"})
	cacheMiss := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache reads that fell through to the API.",
	}, []string{"resource"})
	reg.MustRegister(requests, duration, refreshes, cacheHit, cacheMiss)
	return &ClientMetrics{
		requests:  requests,
		duration:  duration,
		refreshes: refreshes,
		cacheHit:  cacheHit,
		cacheMiss: cacheMiss,
	}
}

// ObserveRequest records a completed request.
func (c *ClientMetrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if c == nil || c.requests == nil {
		return
	}
	c.requests.WithLabelValues(method, normalizeLabel(path), strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, normalizeLabel(path)).Observe(elapsed.Seconds())
}

// IncTokenRefresh counts one refresh attempt.
func (c *ClientMetrics) IncTokenRefresh() {
	if c == nil || c.refreshes == nil {
		return
	}
	c.refreshes.Inc()
}

// IncCacheHit counts a cache hit for the named resource.
func (c *ClientMetrics) IncCacheHit(resource string) {
	if c == nil || c.cacheHit == nil {
		return
	}
	c.cacheHit.WithLabelValues(normalizeLabel(resource)).Inc()
}

// IncCacheMiss counts a cache miss for the named resource.
func (c *ClientMetrics) IncCacheMiss(resource string) {
	if c == nil || c.cacheMiss == nil {
		return
	}
	c.cacheMiss.WithLabelValues(normalizeLabel(resource)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

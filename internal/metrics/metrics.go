package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/khanhvu-dev/mango-cache/internal/engine"
)

// HTTPRequests đếm request theo method và status code, dùng bởi middleware.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mango_http_requests_total",
		Help: "HTTP requests processed, partitioned by method and status code.",
	},
	[]string{"method", "status"},
)

// RequestDuration đo thời gian xử lý request.
var RequestDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "mango_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	},
)

// Register đăng ký toàn bộ collectors lên default registry: counters HTTP và
// các gauge/counter đọc trực tiếp từ engine stats.
func Register(e *engine.Engine) {
	prometheus.MustRegister(HTTPRequests, RequestDuration)

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "mango_cache_items",
			Help: "Number of resident entries.",
		},
		func() float64 { return float64(e.Len()) },
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "mango_cache_bytes",
			Help: "Approximate bytes of resident entries.",
		},
		func() float64 { return float64(e.Bytes()) },
	))

	prometheus.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "mango_cache_hits_total",
			Help: "Cache hits.",
		},
		func() float64 { return float64(e.Stats().Hits) },
	))

	prometheus.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "mango_cache_misses_total",
			Help: "Cache misses.",
		},
		func() float64 { return float64(e.Stats().Misses) },
	))

	prometheus.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "mango_cache_evictions_total",
			Help: "Capacity-driven removals.",
		},
		func() float64 { return float64(e.Stats().Evictions) },
	))

	prometheus.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "mango_cache_expirations_total",
			Help: "TTL-driven removals.",
		},
		func() float64 { return float64(e.Stats().Expirations) },
	))
}

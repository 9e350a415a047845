package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks proxied request outcomes.
//
// Metrics:
//   - <ns>_requests_total: request count by provider and status
//   - <ns>_request_duration_seconds: upstream latency histogram by provider
//   - <ns>_rate_limited_total: throttle signals observed by provider
type RequestMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	rateLimitedTotal *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the registry.
func NewRequestMetrics(namespace string, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of proxied requests",
			},
			[]string{"provider", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of upstream calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		rateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of upstream throttle signals",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.rateLimitedTotal,
	)

	return rm
}

// RecordRequest records one completed upstream call.
// Status is "success" or "error".
func (rm *RequestMetrics) RecordRequest(provider string, succeeded bool, duration time.Duration) {
	status := "success"
	if !succeeded {
		status = "error"
	}
	rm.requestsTotal.WithLabelValues(provider, status).Inc()
	rm.requestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRateLimited records one upstream throttle signal.
func (rm *RequestMetrics) RecordRateLimited(provider string) {
	rm.rateLimitedTotal.WithLabelValues(provider).Inc()
}

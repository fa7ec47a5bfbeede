package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records the operational counters of a service instance.
type Metrics interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	RecordConversion(status string)
	RecordMessagePublished(kind string)
	RecordMessageConsumed(kind, outcome string)
	RecordPendingOp(op string)
	Handler() http.Handler
}

type prometheusMetrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	conversions       *prometheus.CounterVec
	messagesPublished *prometheus.CounterVec
	messagesConsumed  *prometheus.CounterVec
	pendingOps        *prometheus.CounterVec
}

// NewMetrics registers the service's collectors on the default registry.
// Call once per process.
func NewMetrics(service string) Metrics {
	labels := prometheus.Labels{"service": service}

	return &prometheusMetrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests by method, path and status",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		conversions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "conversions_total",
			Help:        "Conversion decisions by resulting status",
			ConstLabels: labels,
		}, []string{"status"}),

		messagesPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "messages_published_total",
			Help:        "Messages published by kind",
			ConstLabels: labels,
		}, []string{"kind"}),

		messagesConsumed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "messages_consumed_total",
			Help:        "Messages consumed by kind and outcome",
			ConstLabels: labels,
		}, []string{"kind", "outcome"}),

		pendingOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "pending_transactions_ops_total",
			Help:        "Pending transaction store operations",
			ConstLabels: labels,
		}, []string{"op"}),
	}
}

func (m *prometheusMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordConversion(status string) {
	m.conversions.WithLabelValues(status).Inc()
}

func (m *prometheusMetrics) RecordMessagePublished(kind string) {
	m.messagesPublished.WithLabelValues(kind).Inc()
}

func (m *prometheusMetrics) RecordMessageConsumed(kind, outcome string) {
	m.messagesConsumed.WithLabelValues(kind, outcome).Inc()
}

func (m *prometheusMetrics) RecordPendingOp(op string) {
	m.pendingOps.WithLabelValues(op).Inc()
}

func (m *prometheusMetrics) Handler() http.Handler {
	return promhttp.Handler()
}

// NoopMetrics discards every observation. Used in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {}
func (NoopMetrics) RecordConversion(status string)                                       {}
func (NoopMetrics) RecordMessagePublished(kind string)                                   {}
func (NoopMetrics) RecordMessageConsumed(kind, outcome string)                           {}
func (NoopMetrics) RecordPendingOp(op string)                                            {}
func (NoopMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}

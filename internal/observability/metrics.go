package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ExplainRequests    *prometheus.CounterVec
	FollowupRequests   *prometheus.CounterVec
	CompletionFailures *prometheus.CounterVec
	RateLimited        prometheus.Counter
	ActiveSessions     prometheus.Gauge
	CompletionLatency  prometheus.Histogram
	PDFExports         *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ExplainRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explain_requests_total",
			Help:      "Primary explanation requests by outcome.",
		}, []string{"outcome"}),
		FollowupRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "followup_requests_total",
			Help:      "Follow-up question requests by outcome.",
		}, []string{"outcome"}),
		CompletionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_failures_total",
			Help:      "Terminal completion failures by kind.",
		}, []string{"kind"}),
		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the local rate limiter.",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live browser sessions.",
		}),
		CompletionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_latency_ms",
			Help:      "End-to-end completion latency including retries, in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 5000, 10000, 20000, 40000},
		}),
		PDFExports: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_exports_total",
			Help:      "PDF export attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveCompletionLatency(d time.Duration) {
	m.CompletionLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

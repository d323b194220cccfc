package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the request counter.
const (
	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Metrics collects the dispatcher's Prometheus series on a private registry,
// so tests and embedded services never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	depth    prometheus.Gauge
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verification_requests_total",
			Help: "Verification requests processed, by verifier and outcome.",
		}, []string{"verifier", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verification_duration_seconds",
			Help:    "Wall-clock verification time per verifier.",
			Buckets: prometheus.DefBuckets,
		}, []string{"verifier"}),
		depth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verification_queue_depth",
			Help: "Verification tasks waiting in the dispatcher queue.",
		}),
	}
}

// Gatherer exposes the private registry for the metrics endpoint.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) observe(verifier, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(verifier, outcome).Inc()
	if outcome != outcomeError {
		m.duration.WithLabelValues(verifier).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) setQueueDepth(n int) {
	m.depth.Set(float64(n))
}

package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics holds the relay's Prometheus instruments.
type Metrics struct {
	InvocationsTotal   *prometheus.CounterVec
	InvocationDuration *prometheus.HistogramVec
}

// InitMetrics creates the relay instruments and registers them on reg.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_relay_invocations_total",
			Help: "Total number of relayed invocations.",
		}, []string{"operation", "kind", "outcome"}),
		InvocationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentflow_relay_duration_seconds",
			Help:    "Invocation duration in seconds, including the downstream call.",
			Buckets: durationBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.InvocationsTotal, m.InvocationDuration)
	return m
}

// RecordInvocation records one finished invocation. outcome is "ok" or the
// error kind.
func (m *Metrics) RecordInvocation(operation, kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.InvocationsTotal.WithLabelValues(operation, kind, outcome).Inc()
	m.InvocationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

package cascade

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics counts cascade mutations per record family and operation.
type Metrics struct {
	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		ops: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrilog_cascade_total",
			Help: "Completed cascade mutations by record family and operation.",
		}, []string{"family", "op"}),
		failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrilog_cascade_failures_total",
			Help: "Rolled-back cascade mutations by record family and operation.",
		}, []string{"family", "op"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutrilog_cascade_duration_seconds",
			Help:    "Cascade mutation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"family", "op"}),
	}
}

// Observe records one finished cascade attempt.
func (m *Metrics) Observe(family, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failures.WithLabelValues(family, op).Inc()
		return
	}
	m.ops.WithLabelValues(family, op).Inc()
	m.duration.WithLabelValues(family, op).Observe(time.Since(start).Seconds())
}

// Module provides the cascade metrics.
var Module = fx.Module("cascade",
	fx.Provide(NewMetrics),
)

package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opLoad   = "load"
	opAppend = "append"
)

// Metrics records store operation outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	items      *prometheus.GaugeVec
}

// NewMetrics registers the store collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by resource, operation and outcome.",
		}, []string{"resource", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "folio",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Round-trip time of store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "op"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "folio",
			Subsystem: "store",
			Name:      "items",
			Help:      "Number of items currently held by each store.",
		}, []string{"resource"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration, m.items)
	}
	return m
}

func (m *Metrics) observe(resource, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.operations.WithLabelValues(resource, op, outcome).Inc()
	m.duration.WithLabelValues(resource, op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setItems(resource string, n int) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(resource).Set(float64(n))
}

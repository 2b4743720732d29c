package inventory

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ledger outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	hydrations prometheus.Counter
	lookups    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstock",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		hydrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookstock",
			Subsystem: "ledger",
			Name:      "hydrations_total",
			Help:      "Records created from catalog metadata.",
		}),
		lookups: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookstock",
			Subsystem: "catalog",
			Name:      "lookup_seconds",
			Help:      "Duration of catalog lookups.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.operations, m.hydrations, m.lookups)
	return m
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) hydrated() {
	if m == nil {
		return
	}
	m.hydrations.Inc()
}

func (m *Metrics) lookupTook(d time.Duration) {
	if m == nil {
		return
	}
	m.lookups.Observe(d.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCatalogMiss):
		return "catalog_miss"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "error"
	}
}

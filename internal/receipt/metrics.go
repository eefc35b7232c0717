package receipt

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the Prometheus collectors for receipt processing
type Metrics struct {
	Processed *prometheus.CounterVec
	Lookups   *prometheus.CounterVec
	Points    prometheus.Histogram
}

// NewMetrics registers and returns the receipt collectors. A nil registerer
// means the default one.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_processed_total",
			Help:      "Receipts submitted, split by whether the content was new or already stored.",
		}, []string{"result"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Points lookups, split by whether the identifier was known.",
		}, []string{"result"}),
		Points: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "points_awarded",
			Help:      "Points computed for newly stored receipts.",
			Buckets:   []float64{10, 25, 50, 75, 100, 150, 250, 500},
		}),
	}
	m.Processed = mustRegister(reg, m.Processed)
	m.Lookups = mustRegister(reg, m.Lookups)
	m.Points = mustRegister(reg, m.Points)
	return m
}

// mustRegister registers c, reusing an identical collector that is already
// registered so building a second server against the same registerer works.
func mustRegister[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register receipt metric: %w", err))
	}
	return c
}

func (m *Metrics) observeProcessed(isNew bool, points int) {
	if m == nil {
		return
	}
	if isNew {
		m.Processed.WithLabelValues("new").Inc()
		m.Points.Observe(float64(points))
		return
	}
	m.Processed.WithLabelValues("duplicate").Inc()
}

func (m *Metrics) observeLookup(found bool) {
	if m == nil {
		return
	}
	if found {
		m.Lookups.WithLabelValues("found").Inc()
		return
	}
	m.Lookups.WithLabelValues("not_found").Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of a single validation run. Each run owns its
// registry so repeated runs in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	Files          prometheus.Gauge
	Records        prometheus.Counter
	Batches        prometheus.Counter
	Dropped        *prometheus.CounterVec
	RecordDuration prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Files: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tfcheck_files",
			Help: "Number of files matched by the input pattern",
		}),
		Records: factory.NewCounter(prometheus.CounterOpts{
			Name: "tfcheck_records_total",
			Help: "Total number of records that reached the sink",
		}),
		Batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "tfcheck_batches_total",
			Help: "Total number of batches drained",
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tfcheck_dropped_records_total",
			Help: "Total number of records dropped, by the stage that rejected them",
		}, []string{"stage"}),
		RecordDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tfcheck_record_duration_seconds",
			Help:    "Time spent parsing and transforming a single record",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

// Registry exposes the run's registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRecord records the processing time of one record.
func (m *Metrics) ObserveRecord(d time.Duration) {
	m.RecordDuration.Observe(d.Seconds())
}

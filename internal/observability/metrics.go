package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gefs_stac"

// Metrics holds the Prometheus counters and histograms for document generation.
type Metrics struct {
	ItemsWritten       prometheus.Counter
	CollectionsWritten prometheus.Counter
	ExtractionErrors   prometheus.Counter
	MessagesRead       prometheus.Counter
	BuildDuration      prometheus.Histogram

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		ItemsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_written_total",
			Help:      "Total STAC items written by every loader.",
		}),
		CollectionsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_written_total",
			Help:      "Total STAC collections written.",
		}),
		ExtractionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_errors_total",
			Help:      "Total sources that could not be turned into an item.",
		}),
		MessagesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_read_total",
			Help:      "Total GRIB2 fields whose headers were decoded.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete extract-transform-load pass for one source.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ItemsWritten,
		m.CollectionsWritten,
		m.ExtractionErrors,
		m.MessagesRead,
		m.BuildDuration,
	}
}

// NewMetrics creates Metrics on their own registry, so an exported textfile
// holds only this tool's series and not the Go runtime collectors.
func NewMetrics() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// NewMetricsForTesting creates Metrics for tests. Each call gets a fresh
// registry.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// WriteTextfile writes the current values in the text exposition format for
// the node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

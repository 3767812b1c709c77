// Package metrics collects per-run scraper metrics for the node exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "etenders"

// Fetch attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector holds the metrics of one run on a private registry.
type Collector struct {
	registry *prometheus.Registry

	FetchAttempts     *prometheus.CounterVec
	RecordsParsed     prometheus.Counter
	RecordsSkipped    prometheus.Counter
	RecordsMapped     prometheus.Counter
	RecordsExported   prometheus.Counter
	DuplicatesDropped prometheus.Counter
	DocumentsBuilt    prometheus.Counter
	DocumentsSkipped  prometheus.Counter
	FieldFallbacks    *prometheus.CounterVec
	RunDuration       prometheus.Gauge
	LastSuccess       prometheus.Gauge
	RunSucceeded      prometheus.Gauge
}

// New creates and registers the run metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Listing requests by outcome",
		}, []string{"outcome"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Entries in the listing payload before the record cap",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Listing entries that were not JSON objects",
		}),
		RecordsMapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_mapped_total",
			Help:      "Entries mapped onto the snapshot schema",
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_exported_total",
			Help:      "Rows written to the snapshot",
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped_total",
			Help:      "Rows removed as exact duplicates",
		}),
		DocumentsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_built_total",
			Help:      "Document download URLs built",
		}),
		DocumentsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_skipped_total",
			Help:      "Document descriptors skipped as incomplete",
		}),
		FieldFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_fallbacks_total",
			Help:      "Fields that kept their raw value after a failed transformation",
		}, []string{"field"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that wrote a snapshot",
		}),
		RunSucceeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_succeeded",
			Help:      "1 if the last run wrote a snapshot, 0 otherwise",
		}),
	}

	c.registry.MustRegister(
		c.FetchAttempts,
		c.RecordsParsed,
		c.RecordsSkipped,
		c.RecordsMapped,
		c.RecordsExported,
		c.DuplicatesDropped,
		c.DocumentsBuilt,
		c.DocumentsSkipped,
		c.FieldFallbacks,
		c.RunDuration,
		c.LastSuccess,
		c.RunSucceeded,
	)

	return c
}

// Registry returns the registry holding the run metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveAttempt counts one listing request.
func (c *Collector) ObserveAttempt(success bool) {
	if success {
		c.FetchAttempts.WithLabelValues(OutcomeSuccess).Inc()

		return
	}

	c.FetchAttempts.WithLabelValues(OutcomeFailure).Inc()
}

// Finish records the run outcome.
func (c *Collector) Finish(started time.Time, succeeded bool) {
	c.RunDuration.Set(time.Since(started).Seconds())

	if succeeded {
		c.RunSucceeded.Set(1)
		c.LastSuccess.SetToCurrentTime()

		return
	}

	c.RunSucceeded.Set(0)
}

// WriteTextfile atomically writes the metrics in text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}

	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}

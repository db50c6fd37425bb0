package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides an interface for collecting and exposing consumer
// metrics. It abstracts Prometheus metric operations with support for
// counters, histograms, and gauges.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// Consumer metric methods

	// IncrementRecordsConsumed adds delivered records to the consumption counter.
	IncrementRecordsConsumed(status string, count int64)

	// IncrementPolls increments the poll counter with a given status label.
	IncrementPolls(status string)

	// RecordPollDuration records the duration of one client poll.
	RecordPollDuration(d time.Duration)

	// IncrementFetches increments the fetch counter for a given outcome.
	IncrementFetches(outcome string)

	// IncrementRebalances adds rebalanced partitions to the rebalance counter.
	IncrementRebalances(event string, partitions int64)

	// IncrementCommits increments the commit counter with a given status label.
	IncrementCommits(status string)

	// Dynamic metric factories

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementRecordsConsumed adds delivered records to the consumption counter.
func (m *Metrics) IncrementRecordsConsumed(status string, count int64) {
	m.recordsConsumed.WithLabelValues(status).Add(float64(count))
}

// IncrementPolls increments the poll counter with a given status label.
func (m *Metrics) IncrementPolls(status string) {
	m.pollsTotal.WithLabelValues(status).Inc()
}

// RecordPollDuration records the duration (in seconds) of one client poll.
func (m *Metrics) RecordPollDuration(d time.Duration) {
	m.pollDuration.WithLabelValues().Observe(d.Seconds())
}

// IncrementFetches increments the fetch counter for a given outcome
// ("records", "expired", "revoked").
func (m *Metrics) IncrementFetches(outcome string) {
	m.fetchesTotal.WithLabelValues(outcome).Inc()
}

// IncrementRebalances adds rebalanced partitions to the rebalance counter.
// The event label is "assigned" or "revoked".
func (m *Metrics) IncrementRebalances(event string, partitions int64) {
	m.rebalancesTotal.WithLabelValues(event).Add(float64(partitions))
}

// IncrementCommits increments the commit counter with a given status label.
func (m *Metrics) IncrementCommits(status string) {
	m.commitsTotal.WithLabelValues(status).Inc()
}

// CreateCounter creates a new CounterVec metric and registers it on Registry
// directly, without the constant service label.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it on
// Registry directly, without the constant service label.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it on Registry
// directly, without the constant service label.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.Registry.MustRegister(gauge)
	return gauge
}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec with standard options.
func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

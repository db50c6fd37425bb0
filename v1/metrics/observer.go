package metrics

import (
	"github.com/Aleph-Alpha/kstream/v1/observability"
)

// Observer translates consumer operation reports into Prometheus metrics.
// It implements observability.Observer and is safe for concurrent use.
type Observer struct {
	metrics *Metrics
}

// NewObserver returns an observer feeding the given metrics instance.
func NewObserver(m *Metrics) *Observer {
	return &Observer{metrics: m}
}

// ObserveOperation implements observability.Observer.
func (o *Observer) ObserveOperation(op observability.OperationContext) {
	status := "success"
	if op.Error != nil {
		status = "error"
	}
	switch op.Operation {
	case "poll":
		o.metrics.IncrementPolls(status)
		o.metrics.RecordPollDuration(op.Duration)
		if op.Size > 0 {
			o.metrics.IncrementRecordsConsumed(status, op.Size)
		}
	case "fetch":
		o.metrics.IncrementFetches(op.SubResource)
	case "rebalance":
		o.metrics.IncrementRebalances(op.SubResource, op.Size)
	case "commit":
		o.metrics.IncrementCommits(status)
	}
}

package consumer

import (
	"time"

	"github.com/Aleph-Alpha/kstream/v1/observability"
)

// observeFunc is the reporting hook the actor calls for every operation.
type observeFunc func(operation, resource, subResource string, duration time.Duration, err error, size int64)

// observeOperation notifies the observer about an operation if one is
// configured. Poll reports carry the record count in Size; rebalance reports
// carry the partition count and "assigned"/"revoked" in SubResource.
func (c *Consumer[K, V]) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64) {
	if c.observer != nil {
		c.observer.ObserveOperation(observability.OperationContext{
			Component:   "consumer",
			Operation:   operation,
			Resource:    resource,
			SubResource: subResource,
			Duration:    duration,
			Error:       err,
			Size:        size,
			Metadata:    nil,
		})
	}
}

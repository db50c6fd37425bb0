// Package observability defines the Observer contract shared by the client
// packages in this library.
//
// Client packages (such as consumer) hold an optional Observer and report
// their operations through it: polls, subscriptions, seeks, offset queries,
// commits, fetch expirations, rebalance events. Observer implementations decide
// what to do with those reports; the metrics package ships a Prometheus-backed
// implementation.
//
// The indirection keeps the client packages free of any metrics or tracing
// dependency: they depend only on this small interface, and applications pick
// the backend by injecting an implementation (directly or through the fx
// modules).
//
// Example:
//
//	type logObserver struct{ log *logger.Logger }
//
//	func (o *logObserver) ObserveOperation(op observability.OperationContext) {
//		o.log.Debug("operation", op.Error, map[string]interface{}{
//			"component": op.Component,
//			"operation": op.Operation,
//			"resource":  op.Resource,
//			"duration":  op.Duration.String(),
//		})
//	}
package observability

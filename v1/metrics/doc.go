// Package metrics provides Prometheus-based monitoring for the consumer.
//
// The package maintains an isolated Prometheus registry with consumer-focused
// collectors (records consumed, polls and their duration, fetch outcomes,
// rebalanced partitions, commits), exposes them over a /metrics HTTP
// endpoint, and ships an observability.Observer implementation that feeds the
// collectors from the consumer's operation reports.
//
// # Direct Usage
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		ServiceName:             "order-ingest",
//		EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
//
//	c, err := consumer.NewConsumer(cfg, keyDeser, valueDeser)
//	if err != nil {
//		return err
//	}
//	c.WithObserver(metrics.NewObserver(m))
//
// # FX Module Integration
//
// The FXModule provides *Metrics and the observer (also under the
// observability.Observer interface, so consumer.FXModule picks it up
// automatically) and manages the HTTP server lifecycle:
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		consumer.FXModule,
//		// config providers...
//	)
package metrics

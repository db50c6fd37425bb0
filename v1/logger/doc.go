// Package logger provides structured logging for the packages in this library.
//
// The logger wraps Uber's Zap with the field conventions used across the
// library: JSON output, ISO8601 timestamps, a "service" field on every entry,
// and optional trace/span IDs extracted from the context when tracing is
// enabled.
//
// # Direct Usage
//
//	import "github.com/Aleph-Alpha/kstream/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "order-ingest",
//	})
//
//	log.Info("consumer started", nil, map[string]interface{}{
//		"group_id": "order-processors",
//	})
//
//	// With trace context (attaches trace_id and span_id when enabled)
//	log.InfoWithContext(ctx, "record processed", nil, map[string]interface{}{
//		"topic":  "orders",
//		"offset": 42,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info, ServiceName: "order-ingest"}
//		}),
//	)
//
// Consumers of this package that only need to emit logs should accept the
// structural Logger interfaces declared next to them (for example
// consumer.Logger) rather than depending on this package directly; *Logger
// satisfies those interfaces.
package logger

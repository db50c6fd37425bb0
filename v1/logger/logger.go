package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Debug logs a message at debug level with optional error and structured fields.
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.buildFields(err, fields...)...)
}

// Info logs a message at info level with optional error and structured fields.
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.buildFields(err, fields...)...)
}

// Warn logs a message at warning level with optional error and structured fields.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.buildFields(err, fields...)...)
}

// Error logs a message at error level with optional error and structured fields.
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.buildFields(err, fields...)...)
}

// DebugWithContext logs a message at debug level and, when tracing is enabled,
// attaches the trace and span IDs found in ctx.
func (l *Logger) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.buildFieldsWithContext(ctx, err, fields...)...)
}

// InfoWithContext logs a message at info level and, when tracing is enabled,
// attaches the trace and span IDs found in ctx.
func (l *Logger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.buildFieldsWithContext(ctx, err, fields...)...)
}

// WarnWithContext logs a message at warning level and, when tracing is enabled,
// attaches the trace and span IDs found in ctx.
func (l *Logger) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.buildFieldsWithContext(ctx, err, fields...)...)
}

// ErrorWithContext logs a message at error level and, when tracing is enabled,
// attaches the trace and span IDs found in ctx.
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.buildFieldsWithContext(ctx, err, fields...)...)
}

// buildFields converts the optional error and field maps into zap fields.
func (l *Logger) buildFields(err error, fields ...map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, 8)
	if err != nil {
		out = append(out, zap.Error(err))
	}
	for _, m := range fields {
		for k, v := range m {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

// buildFieldsWithContext extends buildFields with the trace and span IDs of
// the span recorded in ctx, if any.
func (l *Logger) buildFieldsWithContext(ctx context.Context, err error, fields ...map[string]interface{}) []zap.Field {
	out := l.buildFields(err, fields...)
	if !l.tracingEnabled {
		return out
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		out = append(out, zap.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		out = append(out, zap.String("span_id", spanCtx.SpanID().String()))
	}
	return out
}

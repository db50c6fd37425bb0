package consumer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// headerCarrier adapts record headers to the OpenTelemetry carrier interface.
type headerCarrier []Header

func (h headerCarrier) Get(key string) string {
	for _, header := range h {
		if header.Key == key {
			return string(header.Value)
		}
	}
	return ""
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for _, header := range h {
		keys = append(keys, header.Key)
	}
	return keys
}

// Set is required by the carrier interface; consumed headers are read-only.
func (h headerCarrier) Set(string, string) {}

// ExtractTraceContext returns a context enriched with the trace information a
// producer propagated through the record headers, using the globally
// registered propagator. Processing spans started from the returned context
// become children of the producer's span.
func ExtractTraceContext(ctx context.Context, headers []Header) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, headerCarrier(headers))
}

// TraceContext extracts the producer's trace context from this record's
// headers. See ExtractTraceContext.
func (r Record[K, V]) TraceContext(ctx context.Context) context.Context {
	return ExtractTraceContext(ctx, r.Headers)
}

var _ propagation.TextMapCarrier = headerCarrier(nil)

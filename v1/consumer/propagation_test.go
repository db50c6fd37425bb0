package consumer

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestExtractTraceContextFromHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	headers := []Header{
		{Key: "traceparent", Value: []byte("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")},
		{Key: "other", Value: []byte("x")},
	}

	ctx := ExtractTraceContext(context.Background(), headers)
	spanCtx := trace.SpanContextFromContext(ctx)

	if !spanCtx.IsValid() {
		t.Fatal("expected a valid span context from traceparent header")
	}
	if got := spanCtx.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("unexpected trace id %s", got)
	}
	if !spanCtx.IsRemote() {
		t.Error("expected the extracted span context to be remote")
	}
}

func TestRecordTraceContextWithoutHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	r := Record[string, string]{Topic: "t"}
	ctx := r.TraceContext(context.Background())

	if trace.SpanContextFromContext(ctx).IsValid() {
		t.Error("expected no span context without headers")
	}
}

func TestHeaderCarrier(t *testing.T) {
	h := headerCarrier{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
	}
	if h.Get("b") != "2" {
		t.Errorf("Get returned %q", h.Get("b"))
	}
	if h.Get("missing") != "" {
		t.Error("Get for a missing key should return empty")
	}
	if keys := h.Keys(); len(keys) != 2 || keys[0] != "a" {
		t.Errorf("unexpected keys %v", keys)
	}
}

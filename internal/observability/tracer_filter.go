package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// suppressedSpans are the per-file spans dropped unless verbose tracing is on.
var suppressedSpans = map[string]bool{
	"erlfang.scan.file": true,
}

// filteringTracerProvider hands out tracers that replace suppressed spans
// with no-op spans.
type filteringTracerProvider struct {
	embedded.TracerProvider

	delegate trace.TracerProvider
	noop     trace.TracerProvider
}

// NewFilteringTracerProvider wraps delegate so that per-file scan spans are
// not exported while the scan span itself still is.
func NewFilteringTracerProvider(delegate trace.TracerProvider) trace.TracerProvider {
	return &filteringTracerProvider{delegate: delegate, noop: nooptrace.NewTracerProvider()}
}

// Tracer implements trace.TracerProvider.
func (f *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &filteringTracer{
		delegate: f.delegate.Tracer(name, opts...),
		noop:     f.noop.Tracer(name, opts...),
	}
}

type filteringTracer struct {
	embedded.Tracer

	delegate trace.Tracer
	noop     trace.Tracer
}

// Start implements trace.Tracer.
func (f *filteringTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if suppressedSpans[name] {
		return f.noop.Start(ctx, name, opts...)
	}

	return f.delegate.Start(ctx, name, opts...)
}

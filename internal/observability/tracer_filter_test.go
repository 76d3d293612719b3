package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/observability"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
)

func newTestProvider() (*tracetest.InMemoryExporter, trace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return exporter, tp
}

func TestFilteringProvider_FileSpanSuppressed(t *testing.T) {
	t.Parallel()

	exporter, base := newTestProvider()
	tracer := observability.NewFilteringTracerProvider(base).Tracer("erlfang")

	ctx, scan := tracer.Start(context.Background(), "erlfang.scan")
	_, file := tracer.Start(ctx, "erlfang.scan.file")
	file.End()
	scan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "erlfang.scan", spans[0].Name)
}

func TestFilteringProvider_ScannerExportsOnlyScanSpan(t *testing.T) {
	t.Parallel()

	exporter, base := newTestProvider()
	tracer := observability.NewFilteringTracerProvider(base).Tracer("erlfang")

	parser, diagnostic := erlang.MustParsers()
	s := analyze.NewScanner(parser, diagnostic, analyze.WithTracer(tracer), analyze.WithLogger(discardLogger()))

	_, err := s.Scan(context.Background(), []analyze.InputFile{
		{Path: "a.erl", Content: []byte("-module(a).\n")},
		{Path: "b.erl", Content: []byte("-module(b).\n")},
	})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "erlfang.scan", spans[0].Name)
}

func TestFilteringProvider_OtherSpansPassThrough(t *testing.T) {
	t.Parallel()

	exporter, base := newTestProvider()
	tracer := observability.NewFilteringTracerProvider(base).Tracer("erlfang.cli")

	_, span := tracer.Start(context.Background(), "erlfang.discover")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "erlfang.discover", spans[0].Name)
}

func TestFilteringProvider_NoopSpanIsUsable(t *testing.T) {
	t.Parallel()

	tracer := observability.NewFilteringTracerProvider(nooptrace.NewTracerProvider()).Tracer("erlfang")

	ctx, span := tracer.Start(context.Background(), "erlfang.scan.file")
	span.SetName("renamed")
	span.End()

	assert.NotNil(t, ctx)
}

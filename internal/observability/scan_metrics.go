package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

const (
	metricFilesTotal          = "erlfang.scan.files.total"
	metricParseDuration       = "erlfang.scan.parse.duration.seconds"
	metricIssuesTotal         = "erlfang.scan.issues.total"
	metricRecognitionFailures = "erlfang.scan.recognition_failures.total"

	attrStatus = "status"
	attrRule   = "rule"
)

// parseBucketBoundaries covers sub-millisecond headers up to generated
// modules that take seconds.
var parseBucketBoundaries = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ScanMetrics records scan outcomes. It is both an analyze.ScanObserver
// and an analyze.AuditListener.
type ScanMetrics struct {
	filesTotal    metric.Int64Counter
	parseDuration metric.Float64Histogram
	issuesTotal   metric.Int64Counter
	failures      metric.Int64Counter
}

// NewScanMetrics creates the scan instruments from mt.
func NewScanMetrics(mt metric.Meter) (*ScanMetrics, error) {
	b := newMetricBuilder(mt)

	sm := &ScanMetrics{
		filesTotal:    b.counter(metricFilesTotal, "Files processed by final state", "{file}"),
		parseDuration: b.histogram(metricParseDuration, "Per-file parse duration in seconds", "s", parseBucketBoundaries...),
		issuesTotal:   b.counter(metricIssuesTotal, "Issues reported by rule", "{issue}"),
		failures:      b.counter(metricRecognitionFailures, "Files the grammar could not recognize", "{file}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return sm, nil
}

// ObserveFile counts a file in its final state and records its parse time.
// Safe on a nil receiver.
func (sm *ScanMetrics) ObserveFile(ctx context.Context, state string, parseDuration time.Duration) {
	if sm == nil {
		return
	}

	sm.filesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, state)))
	sm.parseDuration.Record(ctx, parseDuration.Seconds())
}

// ObserveIssues adds count issues for ruleKey.
func (sm *ScanMetrics) ObserveIssues(ctx context.Context, ruleKey string, count int) {
	if sm == nil || count <= 0 {
		return
	}

	sm.issuesTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrRule, ruleKey)))
}

// ProcessRecognitionFailure counts a file rejected by the grammar.
func (sm *ScanMetrics) ProcessRecognitionFailure(ctx context.Context, _ *peg.RecognitionError) {
	if sm == nil {
		return
	}

	sm.failures.Add(ctx, 1)
}

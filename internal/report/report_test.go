package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers"
	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/internal/report"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

const shopSource = "-module(shop).\n-compile(export_all).\nf() -> ok.\n"

func scan(t *testing.T) (*index.Index, analyze.ScanResult) {
	t.Helper()

	visitors, err := checks.Default().Build([]string{checks.KeyDoNotUseExportAll}, nil)
	require.NoError(t, err)

	parser, diagnostic := erlang.MustParsers()
	s := analyze.NewScanner(parser, diagnostic, analyze.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	for _, v := range append(analyzers.Metrics(), visitors...) {
		require.NoError(t, s.RegisterVisitor(v))
	}

	idx, err := s.Scan(context.Background(), []analyze.InputFile{
		{Path: "bad.erl", Content: []byte("-module(\n")},
		{Path: "shop.erl", Content: []byte(shopSource)},
	})
	require.NoError(t, err)

	return idx, s.Result()
}

func scanReport(t *testing.T) *report.Report {
	t.Helper()

	idx, result := scan(t)

	return report.Build(idx, result, checks.Default(), metrics.StandardRegistry())
}

func TestBuild_CollectsFilesIssuesAndFailures(t *testing.T) {
	t.Parallel()

	rep := scanReport(t)

	assert.Equal(t, "project", rep.Project)
	assert.Equal(t, 2, rep.Summary.Files)
	assert.Equal(t, 1, rep.Summary.Walked)
	assert.Equal(t, 1, rep.Summary.Failed)
	assert.Equal(t, 1, rep.Summary.Issues)
	assert.InDelta(t, 1, rep.Metrics[metrics.Files], 0)

	require.Len(t, rep.Files, 1)

	file := rep.Files[0]
	assert.Equal(t, "project:.:shop.erl", file.Key)
	assert.Equal(t, "shop", file.Module)
	require.Len(t, file.Functions, 1)
	assert.Equal(t, "f/0", file.Functions[0].Key)

	assert.Equal(t, []report.Issue{{
		Rule:     checks.KeyDoNotUseExportAll,
		Severity: string(checks.SeverityMajor),
		Line:     2,
		Message:  "Do not use export_all.",
	}}, file.Issues)

	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "bad.erl", rep.Failures[0].Path)
	assert.Equal(t, 2, rep.Failures[0].Line)
}

func TestBuild_UnregisteredRule_InfoSeverity(t *testing.T) {
	t.Parallel()

	idx, result := scan(t)

	empty, err := checks.NewRegistry()
	require.NoError(t, err)

	rep := report.Build(idx, result, empty, nil)

	require.Len(t, rep.Files, 1)
	assert.Equal(t, string(checks.SeverityInfo), rep.Files[0].Issues[0].Severity)
	assert.Empty(t, rep.Definitions)
}

func TestRender_Text_NoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Render(&buf, scanReport(t), report.FormatText, report.Options{NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "Project project: 2 files (1 walked, 1 failed)")
	assert.Contains(t, out, "shop.erl (module shop)")
	assert.Contains(t, out, "Do not use export_all.")
	assert.Contains(t, out, "Cyclomatic complexity")
	assert.Contains(t, out, "Parse failures")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_JSON_RoundTrips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Render(&buf, scanReport(t), report.FormatJSON, report.Options{}))

	var decoded report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 1, decoded.Summary.Issues)
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, checks.KeyDoNotUseExportAll, decoded.Files[0].Issues[0].Rule)
	assert.NotContains(t, buf.String(), "Definitions")
}

func TestRender_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Render(&buf, scanReport(t), report.FormatYAML, report.Options{}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "project", decoded["project"])
	assert.Contains(t, buf.String(), "severity: major")
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Render(io.Discard, scanReport(t), "html", report.Options{})
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

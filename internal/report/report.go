// Package report renders a decorated source-code index for people and tools.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by Render for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Report is the rendered view of one scan.
type Report struct {
	Project  string             `json:"project" yaml:"project"`
	Summary  Summary            `json:"summary" yaml:"summary"`
	Metrics  map[string]float64 `json:"metrics" yaml:"metrics"`
	Files    []File             `json:"files" yaml:"files"`
	Failures []Failure          `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Definitions orders and labels metrics in the text output.
	Definitions []metrics.Definition `json:"-" yaml:"-"`
}

// Summary counts the scan outcome.
type Summary struct {
	Files    int           `json:"files" yaml:"files"`
	Walked   int           `json:"walked" yaml:"walked"`
	Failed   int           `json:"failed" yaml:"failed"`
	Entities int           `json:"entities" yaml:"entities"`
	Issues   int           `json:"issues" yaml:"issues"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// File is one walked file with its metrics, functions and issues.
type File struct {
	Key       string             `json:"key" yaml:"key"`
	Module    string             `json:"module,omitempty" yaml:"module,omitempty"`
	Metrics   map[string]float64 `json:"metrics" yaml:"metrics"`
	Functions []Function         `json:"functions,omitempty" yaml:"functions,omitempty"`
	Issues    []Issue            `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Function is one function entity.
type Function struct {
	Key     string             `json:"key" yaml:"key"`
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`
}

// Issue is a rule violation with the severity of its check.
type Issue struct {
	Rule     string `json:"rule" yaml:"rule"`
	Severity string `json:"severity" yaml:"severity"`
	Line     int    `json:"line" yaml:"line"`
	Message  string `json:"message" yaml:"message"`
}

// Failure is a file the grammar rejected.
type Failure struct {
	Path    string `json:"path" yaml:"path"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

// Build collects the report of a decorated index. The registry supplies
// issue severities; rules it does not know are reported as info.
func Build(idx *index.Index, result analyze.ScanResult, checkReg *checks.Registry, metricReg *metrics.Registry) *Report {
	project := idx.Project()

	rep := &Report{
		Project: project.Key(),
		Metrics: project.Metrics(),
		Summary: Summary{
			Files:    len(result.States),
			Walked:   result.Count(analyze.Walked),
			Failed:   result.Count(analyze.Failed),
			Entities: idx.Len(),
			Issues:   project.IssueCount(),
			Duration: result.Duration,
		},
	}

	if metricReg != nil {
		rep.Definitions = metricReg.Definitions()
	}

	for _, file := range idx.Search(index.File) {
		rep.Files = append(rep.Files, buildFile(file, checkReg))
	}

	for _, failure := range result.Failures {
		rep.Failures = append(rep.Failures, Failure{
			Path:    failure.Path,
			Line:    failure.Line,
			Column:  failure.Column,
			Message: failure.Error(),
		})
	}

	sort.Slice(rep.Failures, func(i, j int) bool { return rep.Failures[i].Path < rep.Failures[j].Path })

	return rep
}

func buildFile(file *index.SourceCode, checkReg *checks.Registry) File {
	out := File{Key: file.QualifiedKey(), Metrics: file.Metrics()}

	file.Walk(func(s *index.SourceCode) {
		switch s.Kind() {
		case index.Class:
			if out.Module == "" {
				out.Module = s.Key()
			}
		case index.Function:
			out.Functions = append(out.Functions, Function{Key: s.Key(), Metrics: s.Metrics()})
		}
	})

	for _, issue := range file.Issues() {
		out.Issues = append(out.Issues, Issue{
			Rule:     issue.RuleKey,
			Severity: string(severity(checkReg, issue.RuleKey)),
			Line:     issue.Line,
			Message:  issue.Message,
		})
	}

	return out
}

func severity(reg *checks.Registry, rule string) checks.Severity {
	if reg == nil {
		return checks.SeverityInfo
	}

	if d, ok := reg.Descriptor(rule); ok && d.Severity != "" {
		return d.Severity
	}

	return checks.SeverityInfo
}

// Options tune Render.
type Options struct {
	NoColor bool
}

// Render writes the report in the given format.
func Render(w io.Writer, rep *Report, format string, opts Options) error {
	switch format {
	case FormatText, "":
		return renderText(w, rep, opts)
	case FormatJSON:
		return renderJSON(w, rep)
	case FormatYAML:
		return renderYAML(w, rep)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

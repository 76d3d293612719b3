package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

const metricDigits = 2

type palette struct {
	major, minor, info, heading, failure *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		major:   color.New(color.FgRed, color.Bold),
		minor:   color.New(color.FgYellow),
		info:    color.New(color.FgCyan),
		heading: color.New(color.Bold),
		failure: color.New(color.FgRed),
	}

	if noColor {
		for _, c := range []*color.Color{p.major, p.minor, p.info, p.heading, p.failure} {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) severity(s string) *color.Color {
	switch checks.Severity(s) {
	case checks.SeverityMajor:
		return p.major
	case checks.SeverityMinor:
		return p.minor
	default:
		return p.info
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	return tbl
}

func renderText(w io.Writer, rep *Report, opts Options) error {
	p := newPalette(opts.NoColor)

	var buf strings.Builder

	s := rep.Summary
	fmt.Fprintf(&buf, "%s %s: %s files (%s walked, %s failed), %s entities, %s issues in %s\n",
		p.heading.Sprint("Project"), rep.Project,
		humanize.Comma(int64(s.Files)), humanize.Comma(int64(s.Walked)), humanize.Comma(int64(s.Failed)),
		humanize.Comma(int64(s.Entities)), humanize.Comma(int64(s.Issues)), s.Duration.Round(time.Millisecond))

	if len(rep.Metrics) > 0 {
		buf.WriteString("\n" + p.heading.Sprint("Metrics") + "\n")
		buf.WriteString(metricsTable(rep))
		buf.WriteString("\n")
	}

	for _, file := range rep.Files {
		if len(file.Issues) == 0 {
			continue
		}

		title := fileTitle(file.Key)
		if file.Module != "" {
			title += " (module " + file.Module + ")"
		}

		buf.WriteString("\n" + p.heading.Sprint(title) + "\n")

		tbl := newTable()
		tbl.AppendHeader(table.Row{"Line", "Severity", "Rule", "Message"})

		for _, issue := range file.Issues {
			tbl.AppendRow(table.Row{issue.Line, p.severity(issue.Severity).Sprint(issue.Severity), issue.Rule, issue.Message})
		}

		buf.WriteString(tbl.Render())
		buf.WriteString("\n")
	}

	if len(rep.Failures) > 0 {
		buf.WriteString("\n" + p.failure.Sprint("Parse failures") + "\n")

		tbl := newTable()
		tbl.AppendHeader(table.Row{"Path", "Position", "Message"})

		for _, f := range rep.Failures {
			tbl.AppendRow(table.Row{f.Path, fmt.Sprintf("%d:%d", f.Line, f.Column), f.Message})
		}

		buf.WriteString(tbl.Render())
		buf.WriteString("\n")
	}

	_, err := io.WriteString(w, buf.String())

	return err
}

// metricsTable lists project metrics in definition order, then any others by name.
func metricsTable(rep *Report) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Metric", "Value"})

	seen := make(map[string]struct{}, len(rep.Metrics))

	for _, def := range rep.Definitions {
		value, ok := rep.Metrics[def.Name()]
		if !ok {
			continue
		}

		seen[def.Name()] = struct{}{}
		tbl.AppendRow(table.Row{def.DisplayName(), formatMetric(value)})
	}

	rest := make([]string, 0)

	for name := range rep.Metrics {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}

	sort.Strings(rest)

	for _, name := range rest {
		tbl.AppendRow(table.Row{name, formatMetric(rep.Metrics[name])})
	}

	return tbl.Render()
}

func formatMetric(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
		return humanize.Comma(int64(v))
	}

	return humanize.CommafWithDigits(v, metricDigits)
}

// fileTitle strips the project and package keys from a qualified file key.
func fileTitle(key string) string {
	parts := strings.SplitN(key, index.KeySeparator, 3) //nolint:mnd // project, package, path.
	if len(parts) == 3 {
		return parts[2]
	}

	return key
}

package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/erlfang/internal/checks"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	return newRulesCommandWithDeps(checks.Default)
}

func newRulesCommandWithDeps(registry func() *checks.Registry) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the available checks and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Options.SeparateRows = false
			tbl.Style().Options.DrawBorder = false

			tbl.AppendHeader(table.Row{"Rule", "Severity", "Description", "Parameters"})

			for _, d := range registry().All() {
				sev := severityColor(d.Severity)
				if noColor {
					sev.DisableColor()
				}

				tbl.AppendRow(table.Row{d.Key, sev.Sprint(d.Severity), d.Description, formatParams(d.Params)})
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			return err
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func severityColor(s checks.Severity) *color.Color {
	switch s {
	case checks.SeverityMajor:
		return color.New(color.FgRed, color.Bold)
	case checks.SeverityMinor:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func formatParams(params []checks.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%s=%v", p.Name, p.Default))
	}

	return strings.Join(parts, "\n")
}

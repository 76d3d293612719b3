package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers"
	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/internal/config"
	"github.com/Sumatoshi-tech/erlfang/internal/discover"
	"github.com/Sumatoshi-tech/erlfang/internal/observability"
	"github.com/Sumatoshi-tech/erlfang/internal/report"
	"github.com/Sumatoshi-tech/erlfang/pkg/erlang"
	"github.com/Sumatoshi-tech/erlfang/pkg/metrics"
)

// ErrIssuesFound is returned by scan --fail-on-issues when any check reported an issue.
var ErrIssuesFound = errors.New("issues found")

// scanFlagKeys maps scan flags to the configuration keys they override.
var scanFlagKeys = map[string]string{
	"format":         "report.format",
	"output":         "report.output",
	"no-color":       "report.no_color",
	"fail-on-issues": "report.fail_on_issues",
	"checks":         "checks.enabled",
	"disable":        "checks.disabled",
	"parallelism":    "scan.parallelism",
	"project-key":    "scan.project_key",
	"exclude":        "scan.exclude",
	"max-file-size":  "scan.max_file_size",
	"encoding":       "scan.encoding",
	"diagnostic":     "scan.diagnostic",
	"metrics-file":   "observability.metrics_file",
	"log-level":      "observability.log_level",
	"log-json":       "observability.log_json",
}

// ScanCommand holds configuration and dependencies for the scan command.
type ScanCommand struct {
	configPath string
	silent     bool

	initTelemetry telemetryInit
	checks        func() *checks.Registry
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	return newScanCommandWithDeps(observability.InitWithWriter, checks.Default)
}

func newScanCommandWithDeps(init telemetryInit, registry func() *checks.Registry) *cobra.Command {
	sc := &ScanCommand{initTelemetry: init, checks: registry}

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan Erlang sources for metrics and rule violations",
		Long: `Scan discovers Erlang sources under the given paths (default: current directory),
computes size and complexity metrics, runs the enabled checks and renders the result.

Settings come from .erlfang.yaml, ERLFANG_* environment variables and flags, flags first.`,
		RunE: sc.run,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "Config file (default: .erlfang.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&sc.silent, "silent", false, "Disable progress output")

	cmd.Flags().String("format", config.FormatText, "Output format: text, json, yaml")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("no-color", false, "Disable colored text output")
	cmd.Flags().Bool("fail-on-issues", false, "Exit with an error when any issue is reported")
	cmd.Flags().StringSlice("checks", nil, "Rule keys or glob patterns to enable (default: all)")
	cmd.Flags().StringSlice("disable", nil, "Rule keys or glob patterns to disable")
	cmd.Flags().IntP("parallelism", "j", 0, "Files parsed concurrently (0 = CPU count)")
	cmd.Flags().String("project-key", config.DefaultProjectKey, "Key of the project entity")
	cmd.Flags().StringSlice("exclude", nil, "Gitignore-style patterns to skip")
	cmd.Flags().String("max-file-size", config.DefaultMaxFileSize, "Skip files larger than this (e.g. 512KiB, 0 = no limit)")
	cmd.Flags().String("encoding", config.DefaultEncoding, "Charset of the sources")
	cmd.Flags().Bool("diagnostic", true, "Re-parse rejected files with the tracing parser")
	cmd.Flags().String("metrics-file", "", "Write scan metrics as a Prometheus textfile")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")

	return cmd
}

func (sc *ScanCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := make(map[string]*pflag.Flag, len(scanFlagKeys))
	for name, key := range scanFlagKeys {
		flags[key] = cmd.Flags().Lookup(name)
	}

	return config.Load(config.Options{Path: sc.configPath, Flags: flags})
}

func (sc *ScanCommand) run(cmd *cobra.Command, args []string) error {
	progress := cmd.ErrOrStderr()

	cfg, err := sc.loadConfig(cmd)
	if err != nil {
		return err
	}

	providers, stop, err := startTelemetry(sc.initTelemetry, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer stop()

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	found, err := discover.Files(cmd.Context(), roots, discover.Options{
		Exclude:     cfg.Scan.Exclude,
		MaxFileSize: maxSize,
		Logger:      providers.Logger,
	})
	if err != nil {
		return err
	}

	progressf(sc.silent, progress, "discovered files: total=%d skipped=%d", len(found.Files), len(found.Skipped))

	registry := sc.checks()

	scanner, err := sc.newScanner(cfg, registry, providers)
	if err != nil {
		return err
	}

	inputs := make([]analyze.InputFile, 0, len(found.Files))
	for _, entry := range found.Files {
		inputs = append(inputs, analyze.InputFile{Path: entry.Path, Encoding: cfg.Scan.Encoding})
	}

	startedAt := time.Now()

	idx, err := scanner.Scan(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	result := scanner.Result()
	progressf(sc.silent, progress, "scan finished in %s: walked=%d failed=%d",
		time.Since(startedAt).Round(time.Millisecond), result.Count(analyze.Walked), result.Count(analyze.Failed))

	rep := report.Build(idx, result, registry, metrics.StandardRegistry())

	if err := writeReport(cmd.OutOrStdout(), rep, cfg.Report); err != nil {
		return err
	}

	if cfg.Observability.MetricsFile != "" && providers.Registry != nil {
		if err := observability.WriteTextfile(cfg.Observability.MetricsFile, providers.Registry); err != nil {
			return err
		}
	}

	if cfg.Report.FailOnIssues && rep.Summary.Issues > 0 {
		return fmt.Errorf("%w: %d", ErrIssuesFound, rep.Summary.Issues)
	}

	return nil
}

func (sc *ScanCommand) newScanner(
	cfg *config.Config,
	registry *checks.Registry,
	providers observability.Providers,
) (*analyze.Scanner, error) {
	keys, err := cfg.CheckKeys(registry)
	if err != nil {
		return nil, err
	}

	params, err := cfg.CheckParams(registry)
	if err != nil {
		return nil, err
	}

	ruleVisitors, err := registry.Build(keys, params)
	if err != nil {
		return nil, err
	}

	scanMetrics, err := observability.NewScanMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	parser, diagnostic := erlang.MustParsers()

	var debugParser analyze.Parser
	if cfg.Scan.Diagnostic {
		debugParser = diagnostic
	}

	parallelism := cfg.Scan.Parallelism
	if parallelism == 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	scanner := analyze.NewScanner(parser, debugParser,
		analyze.WithLogger(providers.Logger),
		analyze.WithTracer(providers.Tracer),
		analyze.WithParallelism(parallelism),
		analyze.WithProjectKey(cfg.Scan.ProjectKey),
		analyze.WithObserver(scanMetrics),
	)

	for _, v := range append(analyzers.Metrics(), ruleVisitors...) {
		if err := scanner.RegisterVisitor(v); err != nil {
			return nil, err
		}
	}

	if err := scanner.AddAuditListener(scanMetrics); err != nil {
		return nil, err
	}

	return scanner, nil
}

func writeReport(stdout io.Writer, rep *report.Report, cfg config.ReportConfig) (err error) {
	out, closeOut, err := openOutput(cfg.Output, stdout)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, closeOut())
	}()

	return report.Render(out, rep, cfg.Format, report.Options{NoColor: cfg.NoColor || cfg.Output != ""})
}

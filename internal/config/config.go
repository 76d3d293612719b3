package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/internal/observability"
)

// Config is the top-level erlfang configuration.
// Field tags use mapstructure for viper unmarshalling and json for schema validation.
type Config struct {
	Checks        ChecksConfig        `mapstructure:"checks" json:"checks"`
	Scan          ScanConfig          `mapstructure:"scan" json:"scan"`
	Report        ReportConfig        `mapstructure:"report" json:"report"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
}

// ChecksConfig selects rule checks and sets their parameters.
type ChecksConfig struct {
	// Enabled holds rule keys or glob patterns. Empty enables every check.
	Enabled []string `mapstructure:"enabled" json:"enabled"`
	// Disabled holds rule keys or glob patterns removed from the selection.
	Disabled []string `mapstructure:"disabled" json:"disabled"`
	// Params maps a rule key to its parameter values. Keys match case-insensitively.
	Params map[string]map[string]any `mapstructure:"params" json:"params"`
}

// ScanConfig holds discovery and scanner settings.
type ScanConfig struct {
	ProjectKey  string   `mapstructure:"project_key" json:"project_key"`
	Parallelism int      `mapstructure:"parallelism" json:"parallelism"`
	MaxFileSize string   `mapstructure:"max_file_size" json:"max_file_size"`
	Exclude     []string `mapstructure:"exclude" json:"exclude"`
	Encoding    string   `mapstructure:"encoding" json:"encoding"`
	// Diagnostic re-parses rejected files with the tracing parser for richer errors.
	Diagnostic bool `mapstructure:"diagnostic" json:"diagnostic"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	Format       string `mapstructure:"format" json:"format"`
	Output       string `mapstructure:"output" json:"output"`
	NoColor      bool   `mapstructure:"no_color" json:"no_color"`
	FailOnIssues bool   `mapstructure:"fail_on_issues" json:"fail_on_issues"`
}

// ObservabilityConfig holds logging and telemetry settings.
type ObservabilityConfig struct {
	LogLevel     string  `mapstructure:"log_level" json:"log_level"`
	LogJSON      bool    `mapstructure:"log_json" json:"log_json"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers" json:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure" json:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio" json:"sample_ratio"`
	TraceVerbose bool    `mapstructure:"trace_verbose" json:"trace_verbose"`
	MetricsFile  string  `mapstructure:"metrics_file" json:"metrics_file"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidThreshold indicates a numeric check parameter is not a non-negative integer.
	ErrInvalidThreshold = errors.New("invalid check threshold")
	// ErrInvalidPattern indicates a check regular expression does not compile.
	ErrInvalidPattern = errors.New("invalid check pattern")
	// ErrUnknownCheck indicates a rule key or pattern that matches no check.
	ErrUnknownCheck = errors.New("unknown check")
	// ErrUnknownParam indicates a parameter the check does not declare.
	ErrUnknownParam = errors.New("unknown check parameter")
	// ErrInvalidMaxFileSize indicates scan.max_file_size is not a byte size.
	ErrInvalidMaxFileSize = errors.New("scan.max_file_size must be a byte size such as 2MiB")
	// ErrInvalidParallelism indicates scan.parallelism is negative.
	ErrInvalidParallelism = errors.New("scan.parallelism must be non-negative")
	// ErrInvalidEncoding indicates scan.encoding is not a known charset.
	ErrInvalidEncoding = errors.New("scan.encoding is not a known charset")
	// ErrInvalidFormat indicates an unsupported report.format.
	ErrInvalidFormat = errors.New("report.format must be one of text, json, yaml")
	// ErrInvalidLogLevel indicates an unsupported observability.log_level.
	ErrInvalidLogLevel = errors.New("observability.log_level must be one of debug, info, warn, error")
	// ErrInvalidSampleRatio indicates observability.sample_ratio is out of range.
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
	// ErrSchemaViolation indicates the settings do not match the configuration schema.
	ErrSchemaViolation = errors.New("configuration does not match schema")
)

// Validate checks Config invariants against the default check registry.
func (c *Config) Validate() error {
	return c.ValidateWith(checks.Default())
}

// ValidateWith checks Config invariants, resolving checks against reg.
// It returns the first error found.
func (c *Config) ValidateWith(reg *checks.Registry) error {
	if err := c.validateScan(); err != nil {
		return err
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	if _, err := c.CheckKeys(reg); err != nil {
		return err
	}

	_, err := c.CheckParams(reg)

	return err
}

func (c *Config) validateScan() error {
	if c.Scan.Parallelism < 0 {
		return ErrInvalidParallelism
	}

	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}

	if c.Scan.Encoding != "" {
		if _, err := ianaindex.IANA.Encoding(c.Scan.Encoding); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidEncoding, c.Scan.Encoding)
		}
	}

	return nil
}

func (c *Config) validateOutput() error {
	switch c.Report.Format {
	case "", FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Report.Format)
	}

	if _, err := c.Observability.SlogLevel(); err != nil {
		return err
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// MaxFileSizeBytes returns scan.max_file_size in bytes. Zero means no limit.
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	raw := strings.TrimSpace(c.Scan.MaxFileSize)
	if raw == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, raw)
	}

	return size, nil
}

// CheckKeys returns the rule keys selected by checks.enabled minus checks.disabled.
func (c *Config) CheckKeys(reg *checks.Registry) ([]string, error) {
	enabled, err := reg.SelectedKeys(c.Checks.Enabled)
	if err != nil {
		return nil, fmt.Errorf("%w: checks.enabled: %w", ErrUnknownCheck, err)
	}

	if len(c.Checks.Disabled) == 0 {
		return enabled, nil
	}

	disabled, err := reg.SelectedKeys(c.Checks.Disabled)
	if err != nil {
		return nil, fmt.Errorf("%w: checks.disabled: %w", ErrUnknownCheck, err)
	}

	skip := make(map[string]bool, len(disabled))
	for _, key := range disabled {
		skip[key] = true
	}

	keys := make([]string, 0, len(enabled))

	for _, key := range enabled {
		if !skip[key] {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// CheckParams returns checks.params keyed by registered rule key. Each
// value is checked against the parameter's declared kind.
func (c *Config) CheckParams(reg *checks.Registry) (map[string]checks.Params, error) {
	if len(c.Checks.Params) == 0 {
		return nil, nil
	}

	out := make(map[string]checks.Params, len(c.Checks.Params))

	for rawKey, values := range c.Checks.Params {
		desc, ok := lookupCheck(reg, rawKey)
		if !ok {
			return nil, fmt.Errorf("%w: checks.params.%s%s", ErrUnknownCheck, rawKey, reg.Hint(rawKey))
		}

		params := make(checks.Params, len(values))

		for rawName, value := range values {
			param, ok := lookupParam(desc, rawName)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParam, desc.Key, rawName)
			}

			params[param.Name] = value

			if err := checkParamValue(params, param); err != nil {
				return nil, fmt.Errorf("%s: %w", desc.Key, err)
			}
		}

		out[desc.Key] = params
	}

	return out, nil
}

func checkParamValue(params checks.Params, param checks.Param) error {
	switch def := param.Default.(type) {
	case string:
		if _, err := params.Regexp(param.Name, def); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}
	case int:
		if _, err := params.Int(param.Name, def); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidThreshold, err)
		}
	}

	return nil
}

// lookupCheck finds a check by key, ignoring case. Viper lowercases map keys.
func lookupCheck(reg *checks.Registry, key string) (checks.Descriptor, bool) {
	if desc, ok := reg.Descriptor(key); ok {
		return desc, true
	}

	for _, desc := range reg.All() {
		if strings.EqualFold(desc.Key, key) {
			return desc, true
		}
	}

	return checks.Descriptor{}, false
}

func lookupParam(desc checks.Descriptor, name string) (checks.Param, bool) {
	for _, p := range desc.Params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	return checks.Param{}, false
}

// SlogLevel parses observability.log_level. Empty means info.
func (o ObservabilityConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(o.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, o.LogLevel)
	}
}

// Telemetry converts the settings to an observability.Config.
func (o ObservabilityConfig) Telemetry(serviceVersion string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = serviceVersion
	cfg.OTLPEndpoint = o.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(o.OTLPHeaders)
	cfg.OTLPInsecure = o.OTLPInsecure
	cfg.SampleRatio = o.SampleRatio
	cfg.TraceVerbose = o.TraceVerbose
	cfg.MetricsFile = o.MetricsFile
	cfg.LogJSON = o.LogJSON

	if level, err := o.SlogLevel(); err == nil {
		cfg.LogLevel = level
	}

	return cfg
}

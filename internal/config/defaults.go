package config

import "github.com/spf13/viper"

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default values.
const (
	DefaultProjectKey  = "project"
	DefaultParallelism = 0
	DefaultMaxFileSize = "2MiB"
	DefaultEncoding    = "UTF-8"
	DefaultFormat      = FormatText
	DefaultLogLevel    = "info"
)

// DefaultExclude holds gitignore-style patterns for rebar and erlang.mk build output.
var DefaultExclude = []string{"_build/", "deps/", "ebin/"}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("checks.enabled", []string{})
	v.SetDefault("checks.disabled", []string{})
	v.SetDefault("checks.params", map[string]any{})

	v.SetDefault("scan.project_key", DefaultProjectKey)
	v.SetDefault("scan.parallelism", DefaultParallelism)
	v.SetDefault("scan.max_file_size", DefaultMaxFileSize)
	v.SetDefault("scan.exclude", DefaultExclude)
	v.SetDefault("scan.encoding", DefaultEncoding)
	v.SetDefault("scan.diagnostic", true)

	v.SetDefault("report.format", DefaultFormat)
	v.SetDefault("report.output", "")
	v.SetDefault("report.no_color", false)
	v.SetDefault("report.fail_on_issues", false)

	v.SetDefault("observability.log_level", DefaultLogLevel)
	v.SetDefault("observability.log_json", false)
	v.SetDefault("observability.otlp_endpoint", "")
	v.SetDefault("observability.otlp_headers", "")
	v.SetDefault("observability.otlp_insecure", false)
	v.SetDefault("observability.sample_ratio", 0.0)
	v.SetDefault("observability.trace_verbose", false)
	v.SetDefault("observability.metrics_file", "")
}

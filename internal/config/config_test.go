package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Checks: config.ChecksConfig{
			Enabled:  []string{"*"},
			Disabled: []string{"NoTabs"},
			Params: map[string]map[string]any{
				"multipleblanklines": {"max_blank_lines_outside_functions": 1},
				"FunctionNamePattern": {"regular_expression": "^[a-z_]+$"},
			},
		},
		Scan: config.ScanConfig{
			ProjectKey:  "proj",
			Parallelism: 4,
			MaxFileSize: "2MiB",
			Encoding:    "ISO-8859-1",
		},
		Report:        config.ReportConfig{Format: config.FormatJSON},
		Observability: config.ObservabilityConfig{LogLevel: "debug", SampleRatio: 0.5},
	}
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_ZeroConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidSettings_ReturnsSentinel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"negative parallelism", func(c *config.Config) { c.Scan.Parallelism = -1 }, config.ErrInvalidParallelism},
		{"bad max file size", func(c *config.Config) { c.Scan.MaxFileSize = "lots" }, config.ErrInvalidMaxFileSize},
		{"unknown encoding", func(c *config.Config) { c.Scan.Encoding = "klingon" }, config.ErrInvalidEncoding},
		{"bad format", func(c *config.Config) { c.Report.Format = "xml" }, config.ErrInvalidFormat},
		{"bad log level", func(c *config.Config) { c.Observability.LogLevel = "loud" }, config.ErrInvalidLogLevel},
		{"sample ratio above one", func(c *config.Config) { c.Observability.SampleRatio = 1.5 }, config.ErrInvalidSampleRatio},
		{"unknown enabled check", func(c *config.Config) { c.Checks.Enabled = []string{"Nope"} }, config.ErrUnknownCheck},
		{"unknown disabled check", func(c *config.Config) { c.Checks.Disabled = []string{"Zz*"} }, config.ErrUnknownCheck},
		{
			"params for unknown check",
			func(c *config.Config) { c.Checks.Params = map[string]map[string]any{"ghost": {"x": 1}} },
			config.ErrUnknownCheck,
		},
		{
			"unknown param",
			func(c *config.Config) { c.Checks.Params = map[string]map[string]any{"LineLength": {"width": 1}} },
			config.ErrUnknownParam,
		},
		{
			"negative threshold",
			func(c *config.Config) {
				c.Checks.Params = map[string]map[string]any{"LineLength": {"maximum_line_length": -1}}
			},
			config.ErrInvalidThreshold,
		},
		{
			"non numeric threshold",
			func(c *config.Config) {
				c.Checks.Params = map[string]map[string]any{"DepthOfCases": {"maximum_nesting_level": "deep"}}
			},
			config.ErrInvalidThreshold,
		},
		{
			"bad pattern",
			func(c *config.Config) {
				c.Checks.Params = map[string]map[string]any{"VariableNamePattern": {"regular_expression": "(["}}
			},
			config.ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestCheckKeys_EnabledMinusDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Checks: config.ChecksConfig{
		Enabled:  []string{"Function*", "NoTabs"},
		Disabled: []string{"FunctionNamePattern"},
	}}

	keys, err := cfg.CheckKeys(checks.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{checks.KeyFunctionComplexity, checks.KeyNoTabs}, keys)
}

func TestCheckKeys_EmptyEnabled_AllChecks(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}

	keys, err := cfg.CheckKeys(checks.Default())
	require.NoError(t, err)
	assert.Len(t, keys, len(checks.Default().All()))
}

func TestCheckParams_CaseInsensitiveKeys_Canonicalized(t *testing.T) {
	t.Parallel()

	cfg := validConfig()

	params, err := cfg.CheckParams(checks.Default())
	require.NoError(t, err)

	assert.Equal(t, map[string]checks.Params{
		checks.KeyMultipleBlankLines:  {checks.ParamMaxBlankLinesOutside: 1},
		checks.KeyFunctionNamePattern: {checks.ParamRegularExpression: "^[a-z_]+$"},
	}, params)

	// The result feeds the registry directly.
	keys, err := cfg.CheckKeys(checks.Default())
	require.NoError(t, err)

	_, err = checks.Default().Build(keys, params)
	require.NoError(t, err)
}

func TestMaxFileSizeBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want uint64
	}{
		{"", 0},
		{"0", 0},
		{"2MiB", 2 << 20},
		{"512 kB", 512_000},
	}

	for _, tt := range tests {
		cfg := config.Config{Scan: config.ScanConfig{MaxFileSize: tt.raw}}

		got, err := cfg.MaxFileSizeBytes()
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestObservability_Telemetry(t *testing.T) {
	t.Parallel()

	o := config.ObservabilityConfig{
		LogLevel:     "warn",
		LogJSON:      true,
		OTLPEndpoint: "localhost:4317",
		OTLPHeaders:  "k=v",
		SampleRatio:  0.25,
		MetricsFile:  "out.prom",
	}

	tel := o.Telemetry("1.0.0")

	assert.Equal(t, "erlfang", tel.ServiceName)
	assert.Equal(t, "1.0.0", tel.ServiceVersion)
	assert.Equal(t, slog.LevelWarn, tel.LogLevel)
	assert.True(t, tel.LogJSON)
	assert.Equal(t, map[string]string{"k": "v"}, tel.OTLPHeaders)
	assert.InDelta(t, 0.25, tel.SampleRatio, 0)
	assert.Equal(t, "out.prom", tel.MetricsFile)
}

func TestValidateSchema_ColonInProjectKey_Violation(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Scan.ProjectKey = "a:b"

	err := cfg.ValidateSchema()
	require.ErrorIs(t, err, config.ErrSchemaViolation)
	assert.Contains(t, err.Error(), "scan.project_key")
}

func TestValidateSchema_FloatThreshold_Violation(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Checks.Params = map[string]map[string]any{"LineLength": {"maximum_line_length": 1.5}}

	require.ErrorIs(t, cfg.ValidateSchema(), config.ErrSchemaViolation)
}

func TestValidateSchema_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.ValidateSchema())
}

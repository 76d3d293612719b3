package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/internal/checks"
	"github.com/Sumatoshi-tech/erlfang/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".erlfang.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultProjectKey, cfg.Scan.ProjectKey)
	assert.Equal(t, config.DefaultMaxFileSize, cfg.Scan.MaxFileSize)
	assert.Equal(t, config.DefaultEncoding, cfg.Scan.Encoding)
	assert.Equal(t, config.DefaultExclude, cfg.Scan.Exclude)
	assert.True(t, cfg.Scan.Diagnostic)
	assert.Equal(t, config.FormatText, cfg.Report.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.Observability.LogLevel)
	assert.Empty(t, cfg.Checks.Enabled)
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
checks:
  enabled: ["MultipleBlankLines", "Function*"]
  params:
    MultipleBlankLines:
      max_blank_lines_outside_functions: 1
scan:
  project_key: shop
  parallelism: 8
  exclude: ["test/fixtures/"]
report:
  format: yaml
  fail_on_issues: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.Scan.ProjectKey)
	assert.Equal(t, 8, cfg.Scan.Parallelism)
	assert.Equal(t, []string{"test/fixtures/"}, cfg.Scan.Exclude)
	assert.Equal(t, config.FormatYAML, cfg.Report.Format)
	assert.True(t, cfg.Report.FailOnIssues)

	params, err := cfg.CheckParams(checks.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, params[checks.KeyMultipleBlankLines][checks.ParamMaxBlankLinesOutside])

	keys, err := cfg.CheckKeys(checks.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{
		checks.KeyMultipleBlankLines, checks.KeyFunctionComplexity, checks.KeyFunctionNamePattern,
	}, keys)
}

func TestLoadConfig_UnknownKey_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "scan:\n  workers: 3\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadConfig_WrongType_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "report:\n  format: html\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadConfig_InvalidThreshold(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "checks:\n  params:\n    LineLength:\n      maximum_line_length: -4\n"))
	require.ErrorIs(t, err, config.ErrInvalidThreshold)
}

func TestLoadConfig_MalformedYAML_ReadError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "scan: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_MissingExplicitFile_Error(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("ERLFANG_SCAN_PARALLELISM", "3")
	t.Setenv("ERLFANG_REPORT_FORMAT", "json")

	cfg, err := config.LoadConfig(writeConfig(t, "scan:\n  parallelism: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scan.Parallelism)
	assert.Equal(t, config.FormatJSON, cfg.Report.Format)
}

func TestLoad_ChangedFlagsOverride(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	fs.String("format", config.FormatText, "")
	fs.Bool("no-color", false, "")
	require.NoError(t, fs.Parse([]string{"--format", "json"}))

	cfg, err := config.Load(config.Options{
		Path: writeConfig(t, "report:\n  format: yaml\n  no_color: true\n"),
		Flags: map[string]*pflag.Flag{
			"report.format":   fs.Lookup("format"),
			"report.no_color": fs.Lookup("no-color"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, cfg.Report.Format)
	assert.True(t, cfg.Report.NoColor, "unchanged flag must not override the file")
}

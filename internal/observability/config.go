// Package observability provides OpenTelemetry tracing and metrics plus
// structured logging for the erlfang CLI.
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command run.
	ModeCLI AppMode = "cli"
	// ModeCI is a CLI run inside a build pipeline, logs default to JSON.
	ModeCI AppMode = "ci"
)

const (
	defaultServiceName        = "erlfang"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	// Empty disables export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the trace sampling ratio in [0, 1]. Zero samples every root.
	SampleRatio float64

	// TraceVerbose keeps per-file spans, which are dropped otherwise.
	TraceVerbose bool

	// MetricsFile, when set, enables the Prometheus reader so that scan
	// metrics can be written as a node-exporter textfile.
	MetricsFile string

	LogLevel slog.Level
	LogJSON  bool

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config usable without any setup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

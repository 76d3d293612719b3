// Package commands implements CLI command handlers for erlfang.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Sumatoshi-tech/erlfang/internal/config"
	"github.com/Sumatoshi-tech/erlfang/internal/observability"
	"github.com/Sumatoshi-tech/erlfang/pkg/version"
)

const envCI = "CI"

type telemetryInit func(cfg observability.Config, logOut io.Writer) (observability.Providers, error)

// startTelemetry initializes observability from the loaded settings and
// returns a function that flushes it.
func startTelemetry(init telemetryInit, cfg *config.Config, logOut io.Writer) (observability.Providers, func(), error) {
	tel := cfg.Observability.Telemetry(version.Version)

	if ci, err := strconv.ParseBool(os.Getenv(envCI)); err == nil && ci {
		tel.Mode = observability.ModeCI
	}

	providers, err := init(tel, logOut)
	if err != nil {
		return observability.Providers{}, nil, fmt.Errorf("init observability: %w", err)
	}

	stop := func() {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}

	return providers, stop, nil
}

func progressf(silent bool, writer io.Writer, format string, args ...any) {
	if silent {
		return
	}

	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}

// openOutput returns the report destination: path when set, fallback otherwise.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", path, err)
	}

	return f, f.Close, nil
}

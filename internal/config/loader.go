// Package config loads and validates erlfang settings from .erlfang.yaml,
// ERLFANG_* environment variables, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName      = ".erlfang"
	configType      = "yaml"
	envPrefix       = "ERLFANG"
	envKeySeparator = "_"
)

// Options tune LoadConfig.
type Options struct {
	// Path is an explicit config file. Empty searches CWD then $HOME.
	Path string
	// Flags maps flag names to config keys, e.g. "format" to "report.format".
	// Only flags the user changed override the file and environment.
	Flags map[string]*pflag.Flag
}

// LoadConfig loads configuration from file, env vars, and defaults.
// A missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	return Load(Options{Path: configPath})
}

// Load is LoadConfig with flag overrides.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for key, flag := range opts.Flags {
		if flag == nil || !flag.Changed {
			continue
		}

		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config

	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	if err := cfg.ValidateSchema(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

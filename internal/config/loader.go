package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "TEAMOVR_"
	EnvConfigFile = "TEAMOVR_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) named by path, or by TEAMOVR_CONFIG when path is empty
//  3. env (prefix TEAMOVR_)
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TEAMOVR_PLOT_GRID_SIZE -> plot_grid_size (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field as ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Pattern == "":
		return fmt.Errorf("%w: pattern must not be empty", ErrInvalidConfig)
	case c.Model != ModelSlots && c.Model != ModelAggregate:
		return fmt.Errorf("%w: model must be %q or %q, got %q", ErrInvalidConfig, ModelSlots, ModelAggregate, c.Model)
	case c.PlotGridSize <= 0:
		return fmt.Errorf("%w: plot_grid_size must be positive", ErrInvalidConfig)
	case c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0:
		return fmt.Errorf("%w: plot size must be positive", ErrInvalidConfig)
	case c.LoadWorkers <= 0:
		return fmt.Errorf("%w: load_workers must be positive", ErrInvalidConfig)
	case c.Top < 0:
		return fmt.Errorf("%w: top must not be negative", ErrInvalidConfig)
	}
	return nil
}

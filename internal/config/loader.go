package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SPOTLE_CONFIG is set
//  3. env (prefix SPOTLE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SPOTLE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SPOTLE_ADDR, SPOTLE_MAX_ATTEMPTS, ...
	// Map env keys like SPOTLE_MAX_ATTEMPTS -> max_attempts (flat keys,
	// underscores preserved to match the koanf tags).
	envProvider := env.Provider("SPOTLE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "spotle_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, errors.New("max_attempts must be positive")
	}
	if cfg.SecondaryMetric != "awards" && cfg.SecondaryMetric != "valuation" {
		return nil, errors.New(`secondary_metric must be "awards" or "valuation"`)
	}
	if cfg.DebutTolerance < 0 || cfg.RatingTolerance < 0 {
		return nil, errors.New("tolerances must not be negative")
	}
	return &cfg, nil
}

package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "MATCHDAY_"
	EnvConfig = EnvPrefix + "CONFIG"

	weightsKey = "attribute_weights"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MATCHDAY_CONFIG is set
//  3. env (prefix MATCHDAY_)
//
// attribute_weights given by a layer replace the default weights instead of
// merging with them. In the environment they are written as
// MATCHDAY_ATTRIBUTE_WEIGHTS="shooting:0.3,passing:0.2".
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like MATCHDAY_QUEUE_SIZE -> queue_size (flat keys).
	// Underscores are kept to match the koanf tags on the struct.
	var envErr error
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "config" {
			return "", nil
		}
		if key == weightsKey {
			weights, err := parseWeights(value)
			if err != nil && envErr == nil {
				envErr = err
			}
			return key, weights
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	if envErr != nil {
		return nil, envErr
	}

	cfg := New()
	if k.Exists(weightsKey) {
		cfg.AttributeWeights = nil
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if cfg.AttributeWeights == nil {
		cfg.AttributeWeights = map[string]float64{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseWeights parses "name:weight" pairs separated by commas.
func parseWeights(s string) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%w: attribute weight %q: want name:weight", ErrInvalidConfig, pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute weight %q: %w", ErrInvalidConfig, pair, err)
		}
		out[strings.TrimSpace(name)] = w
	}
	return out, nil
}

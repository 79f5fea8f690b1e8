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

// Load layers configuration sources, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by SHOTLENS_CONFIG, when set
//  3. environment variables with prefix SHOTLENS_
//
// Env keys map to dotted koanf paths with "__" as the separator, so
// SHOTLENS_GRID__X_BINS sets grid.x_bins.
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("SHOTLENS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("SHOTLENS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "SHOTLENS_"))
		return strings.ReplaceAll(s, "__", ".")
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
	switch cfg.League {
	case "bleague", "nba":
	default:
		return nil, errors.New("league must be bleague or nba")
	}
	return &cfg, nil
}

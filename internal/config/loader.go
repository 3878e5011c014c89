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
//  2. file (YAML) if TOSFORGE_CONFIG is set
//  3. env (prefix TOSFORGE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TOSFORGE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// TOSFORGE_DB_DRIVER -> db_driver, matching the koanf tags on Config.
	envProvider := env.Provider("TOSFORGE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "tosforge_")
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
	if cfg.EnableAuth && cfg.AuthSecret == "" {
		return nil, errors.New("auth_secret is required when auth is enabled")
	}
	switch cfg.AIProvider {
	case "", "anthropic", "openai":
	default:
		return nil, errors.New("ai_provider must be empty, anthropic, or openai")
	}
	return &cfg, nil
}

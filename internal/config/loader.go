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

const (
	envPrefix  = "AKSA_"
	envFileVar = "AKSA_CONFIG"
)

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults (New)
//  2. a YAML file when AKSA_CONFIG is set
//  3. env vars with the AKSA_ prefix, e.g. AKSA_DB_DRIVER -> db_driver
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Mode != ModeOffline && c.Mode != ModeOnline:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	case c.HTTPAddr == "":
		return fmt.Errorf("%w: http_addr must not be empty", ErrInvalidConfig)
	case c.DBDriver != "sqlite" && c.DBDriver != "postgres":
		return fmt.Errorf("%w: db_driver %q", ErrInvalidConfig, c.DBDriver)
	case c.AuthHMACSecret == "":
		return fmt.Errorf("%w: auth_hmac_secret must not be empty", ErrInvalidConfig)
	case c.Mode == ModeOnline && c.AuthHMACSecret == DevSecret:
		return fmt.Errorf("%w: online mode requires auth_hmac_secret", ErrInvalidConfig)
	case c.TokenTTL <= 0:
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidConfig)
	case c.PageSize <= 0:
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	case c.LoginRate <= 0 || c.LoginBurst <= 0:
		return fmt.Errorf("%w: login_rate and login_burst must be positive", ErrInvalidConfig)
	}
	return nil
}

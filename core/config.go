package core

import (
	"fmt"
	"strings"
)

type CacheConfig struct {
	Group      string `koanf:"group" mapstructure:"group"`
	TTLSeconds int    `koanf:"ttl_seconds" mapstructure:"ttl_seconds"`
}

type Config struct {
	ServiceName string      `koanf:"service_name" mapstructure:"service_name"`
	Cache       CacheConfig `koanf:"cache" mapstructure:"cache"`

	// AccessTokenLifetime is the default bearer token lifetime in seconds.
	AccessTokenLifetime int `koanf:"access_token_lifetime" mapstructure:"access_token_lifetime"`

	// ValidTokenHorizon is the minimum remaining lifetime, in seconds, a
	// token needs for GetValidAccessToken to return it.
	ValidTokenHorizon int `koanf:"valid_token_horizon" mapstructure:"valid_token_horizon"`

	// PurgeRetention is how long, in seconds, expired token rows are kept
	// before the maintenance purge removes them.
	PurgeRetention int `koanf:"purge_retention" mapstructure:"purge_retention"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "oauth-store",
		Cache: CacheConfig{
			Group:      "acl",
			TTLSeconds: 0,
		},
		AccessTokenLifetime: 3600,
		ValidTokenHorizon:   3600,
		PurgeRetention:      30 * 24 * 3600,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Cache.Group) == "" {
		return fmt.Errorf("core: cache.group is required")
	}
	if c.AccessTokenLifetime <= 0 {
		return fmt.Errorf("core: access_token_lifetime must be positive")
	}
	if c.ValidTokenHorizon < 0 {
		return fmt.Errorf("core: valid_token_horizon cannot be negative")
	}
	if c.PurgeRetention < 0 {
		return fmt.Errorf("core: purge_retention cannot be negative")
	}
	return nil
}

package core

import (
	"context"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Cache.Group != "acl" {
		t.Fatalf("expected acl cache group, got %q", cfg.Cache.Group)
	}
	if cfg.AccessTokenLifetime != 3600 {
		t.Fatalf("expected 3600s default token lifetime, got %d", cfg.AccessTokenLifetime)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty service name", func(c *Config) { c.ServiceName = " " }},
		{"empty cache group", func(c *Config) { c.Cache.Group = "" }},
		{"zero token lifetime", func(c *Config) { c.AccessTokenLifetime = 0 }},
		{"negative horizon", func(c *Config) { c.ValidTokenHorizon = -1 }},
		{"negative retention", func(c *Config) { c.PurgeRetention = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation failure")
			}
		})
	}
}

func TestCfgxConfigProvider_AppliesRawValuesOverDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
		"service_name": "token-vault",
		"cache": map[string]any{
			"group": "sessions",
		},
	}})

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "token-vault" {
		t.Fatalf("expected loaded service name, got %q", cfg.ServiceName)
	}
	if cfg.Cache.Group != "sessions" {
		t.Fatalf("expected loaded cache group, got %q", cfg.Cache.Group)
	}
	if cfg.AccessTokenLifetime != DefaultConfig().AccessTokenLifetime {
		t.Fatalf("expected untouched fields to keep defaults, got %d", cfg.AccessTokenLifetime)
	}
}

func TestCfgxConfigProvider_NilLoaderKeepsDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(nil)

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestGoOptionsResolver_RuntimeWinsOverLoaded(t *testing.T) {
	defaults := DefaultConfig()

	loaded := Config{}
	loaded.ServiceName = "from-config"
	loaded.AccessTokenLifetime = 1800

	runtime := Config{}
	runtime.ServiceName = "from-runtime"

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if resolved.ServiceName != "from-runtime" {
		t.Fatalf("expected runtime layer to win, got %q", resolved.ServiceName)
	}
	if resolved.AccessTokenLifetime != 1800 {
		t.Fatalf("expected config layer value to survive, got %d", resolved.AccessTokenLifetime)
	}
	if resolved.Cache.Group != defaults.Cache.Group {
		t.Fatalf("expected default cache group, got %q", resolved.Cache.Group)
	}
}

func TestGoOptionsResolver_RejectsInvalidMerge(t *testing.T) {
	runtime := Config{}
	runtime.AccessTokenLifetime = -10

	// A negative lifetime is dropped from the runtime layer map, so the
	// defaults win; an empty group in every layer cannot be fixed.
	defaults := DefaultConfig()
	defaults.Cache.Group = ""
	if _, err := (GoOptionsResolver{}).Resolve(defaults, Config{}, runtime); err == nil {
		t.Fatalf("expected validation failure for empty cache group")
	}
}

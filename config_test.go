package sessionrelay

import (
	"net/http"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Restore.MaxRestoreAttempts != MaxRestoreAttempts {
		t.Fatalf("attempt ceiling = %d", cfg.Restore.MaxRestoreAttempts)
	}
	if cfg.Restore.EmptyReadTolerance != EmptyReadTolerance {
		t.Fatalf("tolerance = %d", cfg.Restore.EmptyReadTolerance)
	}
	if cfg.Bridge.CookieTTL != 7*24*time.Hour {
		t.Fatalf("cookie ttl = %v", cfg.Bridge.CookieTTL)
	}
}

func TestValidateRejectsNonsense(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero attempts", func(c *Config) { c.Restore.MaxRestoreAttempts = 0 }},
		{"negative tolerance", func(c *Config) { c.Restore.EmptyReadTolerance = -1 }},
		{"zero scope ttl", func(c *Config) { c.Scope.TTL = 0 }},
		{"empty storage key", func(c *Config) { c.Bridge.StorageKey = "" }},
		{"relative callback path", func(c *Config) { c.Bridge.CallbackPath = "session/report" }},
		{"zero cookie ttl", func(c *Config) { c.Bridge.CookieTTL = 0 }},
		{"audit without buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = -1
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation failure")
			}
		})
	}
}

func TestFillDefaultsCompletesPartialConfig(t *testing.T) {
	var cfg Config
	cfg.Gateway.BaseURL = "http://localhost:1"
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("filled config must validate: %v", err)
	}
	if cfg.Bridge.StorageKey == "" || cfg.Bridge.CallbackPath == "" {
		t.Fatalf("bridge defaults missing: %+v", cfg.Bridge)
	}
	if cfg.Bridge.SameSitePolicy != http.SameSiteLaxMode {
		t.Fatalf("same-site default = %v", cfg.Bridge.SameSitePolicy)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gateway.BaseURL = "http://localhost:1"

	b := New().WithConfig(cfg)
	e, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer e.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second build must fail")
	}
}

func TestBuildRequiresGatewayBaseURL(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected build to fail without a gateway base URL")
	}
}

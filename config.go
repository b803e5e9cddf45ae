package sessionrelay

import (
	"errors"
	"time"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/gateway"
)

const (
	// MaxRestoreAttempts is the default ceiling on verify calls per
	// restore cycle. Rejections never retry; this bounds transient
	// failures only.
	MaxRestoreAttempts = 3

	// EmptyReadTolerance is the default number of render passes a scope
	// waits for the browser's asynchronous answer before concluding there
	// is nothing stored.
	EmptyReadTolerance = 1

	// DefaultScopeTTL is how long an idle scope record survives between
	// render passes.
	DefaultScopeTTL = 12 * time.Hour
)

// Config is the root configuration tree.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	Gateway gateway.Config
	Bridge  bridge.Config
	Restore RestoreConfig
	Scope   ScopeConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// RestoreConfig bounds the session recovery loop.
type RestoreConfig struct {
	// MaxRestoreAttempts caps verify calls per restore cycle. Once
	// exhausted the scope lands anonymous without clearing the browser:
	// the stored identifier may still be valid once the backend recovers.
	MaxRestoreAttempts int

	// EmptyReadTolerance is how many passes an unanswered browser probe
	// is tolerated before the scope is declared anonymous.
	EmptyReadTolerance int
}

// ScopeConfig controls scope record persistence.
type ScopeConfig struct {
	TTL         time.Duration
	RedisPrefix string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metric counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Gateway: gateway.DefaultConfig(),
		Bridge:  bridge.DefaultConfig(),
		Restore: RestoreConfig{
			MaxRestoreAttempts: MaxRestoreAttempts,
			EmptyReadTolerance: EmptyReadTolerance,
		},
		Scope: ScopeConfig{
			TTL: DefaultScopeTTL,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate checks the configuration for values the engine cannot operate
// with. Zero durations and counts are filled from defaults by Build before
// validation, so Validate only rejects explicit nonsense.
func (c *Config) Validate() error {
	if c.Restore.MaxRestoreAttempts < 1 {
		return errors.New("config: Restore.MaxRestoreAttempts must be at least 1")
	}
	if c.Restore.EmptyReadTolerance < 0 {
		return errors.New("config: Restore.EmptyReadTolerance must not be negative")
	}
	if c.Scope.TTL <= 0 {
		return errors.New("config: Scope.TTL must be positive")
	}
	if c.Bridge.StorageKey == "" {
		return errors.New("config: Bridge.StorageKey required")
	}
	if c.Bridge.CallbackPath == "" || c.Bridge.CallbackPath[0] != '/' {
		return errors.New("config: Bridge.CallbackPath must be an absolute path")
	}
	if c.Bridge.CookieTTL <= 0 {
		return errors.New("config: Bridge.CookieTTL must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("config: Audit.BufferSize must be at least 1 when audit is enabled")
	}
	return nil
}

// fillDefaults replaces zero values with the defaults so a partially
// populated Config behaves predictably.
func (c *Config) fillDefaults() {
	def := defaultConfig()
	if c.Restore.MaxRestoreAttempts == 0 {
		c.Restore.MaxRestoreAttempts = def.Restore.MaxRestoreAttempts
	}
	if c.Restore.EmptyReadTolerance == 0 {
		c.Restore.EmptyReadTolerance = def.Restore.EmptyReadTolerance
	}
	if c.Scope.TTL == 0 {
		c.Scope.TTL = def.Scope.TTL
	}
	if c.Bridge.StorageKey == "" {
		c.Bridge.StorageKey = def.Bridge.StorageKey
	}
	if c.Bridge.CallbackPath == "" {
		c.Bridge.CallbackPath = def.Bridge.CallbackPath
	}
	if c.Bridge.CookieTTL == 0 {
		c.Bridge.CookieTTL = def.Bridge.CookieTTL
	}
	if c.Bridge.SameSitePolicy == 0 {
		c.Bridge.SameSitePolicy = def.Bridge.SameSitePolicy
	}
	if c.Audit.BufferSize == 0 {
		c.Audit.BufferSize = def.Audit.BufferSize
	}
}

package sessionrelay

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/gateway"
	"github.com/v7monitor/sessionrelay/scope"
)

// Builder assembles an Engine. Builders are single-use.
//
// Builder instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	gateway    *gateway.Client
	scopeStore scope.Store
	redis      *redis.Client
	auditSink  AuditSink

	built bool
}

// New returns a Builder seeded with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithGateway injects a pre-built credential gateway client. When absent,
// Build constructs one from Config.Gateway.
func (b *Builder) WithGateway(client *gateway.Client) *Builder {
	b.gateway = client
	return b
}

// WithScopeStore injects the scope record store. When absent, Build uses
// an in-process store, or a Redis store when WithRedis was called.
func (b *Builder) WithScopeStore(store scope.Store) *Builder {
	b.scopeStore = store
	return b
}

// WithRedis wires scope persistence to Redis so multiple replicas can
// serve the same viewer.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the audit destination and enables audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verify latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gw := b.gateway
	if gw == nil {
		var err error
		gw, err = gateway.NewClient(cfg.Gateway)
		if err != nil {
			return nil, err
		}
	}

	store := b.scopeStore
	if store == nil {
		if b.redis != nil {
			store = scope.NewRedisStore(b.redis, cfg.Scope.RedisPrefix)
		} else {
			store = scope.NewMemoryStore()
		}
	}

	e := &Engine{
		config:  cfg,
		gateway: gw,
		scopes:  store,
		reports: bridge.NewReportBuffer(),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	b.built = true
	return e, nil
}

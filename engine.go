package sessionrelay

import (
	"net/http"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/gateway"
	"github.com/v7monitor/sessionrelay/scope"
)

// Engine drives the per-scope session lifecycle. Construct it through
// [Builder.Build]; the zero value is not usable.
//
// Engine instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	gateway *gateway.Client
	scopes  scope.Store
	reports *bridge.ReportBuffer
	audit   *auditDispatcher
	metrics *Metrics
}

// Close flushes the audit dispatcher. The engine must not be used after
// Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// ReportHandler returns the HTTP handler for the browser's session report
// callback. Mount it at Config.Bridge.CallbackPath.
func (e *Engine) ReportHandler() http.Handler {
	return bridge.Handler(e.reports.Put)
}

// Reports exposes the report buffer for wiring custom transports, such as
// a test harness feeding MemoryBrowser reports back into the engine.
func (e *Engine) Reports() *bridge.ReportBuffer {
	if e == nil {
		return nil
	}
	return e.reports
}

// BridgeConfig returns the bridge configuration the engine renders scripts
// with.
func (e *Engine) BridgeConfig() bridge.Config {
	return e.config.Bridge
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Metrics exposes the live counter set for exporters.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

package internaldefs

import (
	sessionrelay "github.com/v7monitor/sessionrelay"
)

// CounterDef binds a MetricID to its stable exported name.
type CounterDef struct {
	ID   sessionrelay.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram MetricID to its stable exported name.
type HistogramDef struct {
	ID   sessionrelay.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: sessionrelay.MetricLoginSuccess, Name: "sessionrelay_login_success_total", Help: "Successful credential logins."},
	{ID: sessionrelay.MetricLoginFailure, Name: "sessionrelay_login_failure_total", Help: "Failed credential logins."},
	{ID: sessionrelay.MetricRestoreSuccess, Name: "sessionrelay_restore_success_total", Help: "Sessions recovered from browser storage."},
	{ID: sessionrelay.MetricRestoreRejected, Name: "sessionrelay_restore_rejected_total", Help: "Stored session identifiers refused by the backend."},
	{ID: sessionrelay.MetricRestoreTransient, Name: "sessionrelay_restore_transient_total", Help: "Verify attempts lost to timeouts or connection failures."},
	{ID: sessionrelay.MetricRestoreExhausted, Name: "sessionrelay_restore_exhausted_total", Help: "Restore cycles abandoned at the attempt ceiling."},
	{ID: sessionrelay.MetricBridgeEmptyRead, Name: "sessionrelay_bridge_empty_read_total", Help: "Browser probes that found nothing stored."},
	{ID: sessionrelay.MetricConsistencyViolation, Name: "sessionrelay_consistency_violation_total", Help: "Passes where the browser reported a different session identifier than the scope held."},
	{ID: sessionrelay.MetricLogout, Name: "sessionrelay_logout_total", Help: "Explicit logouts."},
	{ID: sessionrelay.MetricRefreshSuccess, Name: "sessionrelay_refresh_success_total", Help: "Access tokens minted via the refresh endpoint."},
	{ID: sessionrelay.MetricRefreshFailure, Name: "sessionrelay_refresh_failure_total", Help: "Failed refresh calls."},
}

// HistogramDefs lists every exported histogram in render order.
var HistogramDefs = []HistogramDef{
	{ID: sessionrelay.MetricVerifyLatency, Name: "sessionrelay_verify_latency_seconds", Help: "Session verification round-trip latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// core histogram's fixed buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix holds name-safe renderings of HistogramBounds for
// exporters that encode the bound into the instrument name.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

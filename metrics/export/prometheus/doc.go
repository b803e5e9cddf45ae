// Package prometheus renders sessionrelay metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [sessionrelay.Engine] and exposes an
// [net/http.Handler] that renders all counters and histograms. Counter
// names are prefixed sessionrelay_*_total; the single histogram is
// sessionrelay_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus

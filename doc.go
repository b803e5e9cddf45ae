// Package sessionrelay keeps server-rendered dashboard sessions alive across
// full page reloads. It pairs a per-viewer state machine with a browser
// storage bridge: credentials live in process memory for the life of a
// scope, while the opaque session identifier is mirrored into browser
// storage tiers and recovered through the credential gateway when the
// process-side state is lost.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. Each scope is isolated; nothing
// authentication-related is shared between scopes.
//
// # Architecture boundaries
//
// sessionrelay is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (PassResult, MetricsSnapshot, Event). Remote
// credential calls live in the gateway package, browser storage emission in
// the bridge package, and record persistence in the scope package; this
// package orchestrates them.
//
// # What this package must NOT do
//
//   - Place a session identifier in any URL. Browser reports arrive over
//     POST bodies only.
//   - Retry a credential rejection. Only timeouts and connection failures
//     are retried, and only up to the configured attempt ceiling.
//   - Trust process memory over the browser. When the browser reports a
//     different stored session identifier than the scope holds, the scope
//     is stale and the browser value is re-verified.
package sessionrelay

// Package bridge moves a session identifier between server process state and
// the end user's browser storage across three tiers: a tab-scoped store
// (sessionStorage), an origin-persistent store (localStorage), and a cookie.
//
// The bridge is asynchronous by construction: a directive issued during one
// render pass executes in the browser on its own schedule, and the outcome
// becomes observable only when the browser posts a [Report] back through the
// callback handler. A READ issued on a fresh page load therefore answers
// "no value yet", not "no value exists"; the orchestrator tolerates a bounded
// number of unanswered passes before concluding that nothing is persisted.
//
// # Architecture boundaries
//
// This package owns directive modeling, browser-side script generation, and
// report transport. It never touches process-memory session state; directives
// are computed by the caller and reports are returned to the caller. The
// state machine in the root package is the only component that commits
// results to memory.
//
// # What this package must NOT do
//
//   - Place a session identifier in a URL query string (reports travel in
//     POST bodies only).
//   - Execute its script from a sandboxed or opaque-origin context: storage
//     written there is invisible to the host page. Scripts are emitted as
//     inline page content and must run same-origin.
//   - Treat a failing storage tier as fatal: every tier operation is
//     independently guarded.
package bridge

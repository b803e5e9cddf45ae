// Package scope holds the per-viewer session record and the stores that
// persist it between render passes.
//
// A Scope is the process-side mirror of one browser tab's authentication
// state: the lifecycle state, the credential bundle, and the bookkeeping
// counters that bound restore retries. Scopes are plain data; all state
// transitions live in the engine.
//
// # Architecture boundaries
//
// This package must remain free of engine and transport concerns. It knows
// nothing about the credential gateway, the browser bridge, or HTTP. Stores
// persist and retrieve records verbatim.
//
// # What this package must NOT do
//
//   - decide state transitions or retry policy
//   - talk to the authentication backend
//   - share a record between scopes; every scope is isolated
package scope

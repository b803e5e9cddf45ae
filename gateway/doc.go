// Package gateway wraps the four remote credential operations (login,
// verify-session, logout, and the legacy refresh path) behind a typed HTTP
// client. It is the only network boundary of the session core.
//
// Every call is a single synchronous POST with a bounded timeout and no
// automatic retry. Failures are classified into a small taxonomy the state
// machine branches on: [ErrTimeout] and [ErrConnection] are transient and
// preserve stored credentials, [ErrAuthRejected] is terminal and triggers
// the sign-out path, [ErrServerError] is terminal for the attempt only.
//
// # What this package must NOT do
//
//   - Place a session identifier or token in a URL (verification is a
//     state-changing POST, never a cacheable GET).
//   - Write process-memory session state: the client returns values and the
//     state machine alone commits them.
//   - Retry a rejection: a server that revoked a session must not be
//     hammered with repeats of the same credential.
package gateway

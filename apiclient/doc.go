// Package apiclient is the authenticated data client for dashboard
// fetchers. It attaches the scope's bearer token to every request and
// transparently refreshes it once on a 401 before giving up.
//
// # Architecture boundaries
//
// apiclient consumes the engine through the narrow [SessionSource]
// interface; it never touches scope records, browser storage, or the
// credential endpoints directly.
//
// # What this package must NOT do
//
//   - place a session identifier or token in any URL
//   - retry a request more than once after a refresh
//   - interpret response payloads; callers get the raw JSON
package apiclient

package sessionrelay

import (
	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/scope"
)

// State re-exports the scope lifecycle state so most callers never import
// the scope package directly.
type State = scope.State

const (
	// StateUnchecked marks a scope that has never probed the browser.
	StateUnchecked = scope.StateUnchecked
	// StateRestoring marks a scope waiting on browser probe or verify.
	StateRestoring = scope.StateRestoring
	// StateAuthenticated marks a scope holding verified credentials.
	StateAuthenticated = scope.StateAuthenticated
	// StateAnonymous marks a scope that conclusively has no session.
	StateAnonymous = scope.StateAnonymous
)

// Identity re-exports the presentational identity record.
type Identity = scope.Identity

// PassResult is what one render pass hands back to the page renderer: the
// lifecycle state to render for, and the browser directive (if any) to
// embed in the response.
type PassResult struct {
	ScopeID       string
	State         State
	Authenticated bool
	Identity      Identity

	// AccessToken is exposed so the renderer can hand it to same-process
	// data fetchers. It must never reach the browser.
	AccessToken string

	// Directive is the browser operation for this pass, nil when the
	// browser needs nothing. Script is the directive rendered against
	// the bridge configuration, ready to embed.
	Directive *bridge.Directive
	Script    string
}

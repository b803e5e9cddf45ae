package sessionrelay

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrMissingCredentials is returned by Login when email or password is
	// empty.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrNotAuthenticated is returned by introspection calls on a scope
	// without verified credentials.
	ErrNotAuthenticated = errors.New("scope not authenticated")
	// ErrScopeUnavailable is returned when the scope store cannot be
	// reached. The render pass cannot proceed without a record.
	ErrScopeUnavailable = errors.New("scope store unavailable")
	// ErrTokenUnreadable is returned when the stored access token cannot
	// be parsed well enough to read its expiry.
	ErrTokenUnreadable = errors.New("access token unreadable")
)

package sessionrelay

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeState reports the current lifecycle state without advancing it.
func (e *Engine) ScopeState(ctx context.Context, scopeID string) (State, error) {
	if e == nil {
		return StateUnchecked, ErrEngineNotReady
	}
	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return StateUnchecked, err
	}
	return sc.State, nil
}

// Identity returns the identity record of an authenticated scope.
func (e *Engine) Identity(ctx context.Context, scopeID string) (Identity, error) {
	if e == nil {
		return Identity{}, ErrEngineNotReady
	}
	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return Identity{}, err
	}
	if !sc.Authenticated() {
		return Identity{}, ErrNotAuthenticated
	}
	return sc.Identity, nil
}

// AuthHeaders returns the headers to attach to backend data requests made
// on behalf of the scope.
func (e *Engine) AuthHeaders(ctx context.Context, scopeID string) (map[string]string, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	if !sc.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return map[string]string{
		"Authorization": "Bearer " + sc.AccessToken,
	}, nil
}

// AccessTokenExpiry reads the exp claim out of the scope's access token.
// The token is not validated here; the backend is the validator. The
// expiry only schedules proactive refreshes.
func (e *Engine) AccessTokenExpiry(ctx context.Context, scopeID string) (time.Time, error) {
	if e == nil {
		return time.Time{}, ErrEngineNotReady
	}
	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return time.Time{}, err
	}
	if !sc.Authenticated() {
		return time.Time{}, ErrNotAuthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sc.AccessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrTokenUnreadable, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrTokenUnreadable
	}
	return exp.Time, nil
}

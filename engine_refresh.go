package sessionrelay

import (
	"context"
	"errors"

	"github.com/v7monitor/sessionrelay/gateway"
	"github.com/v7monitor/sessionrelay/scope"
)

// RefreshAccess mints a fresh access token for an authenticated scope via
// the refresh endpoint and commits it to the scope record. Data clients
// call it after a 401 and retry with the returned token.
//
// A rejected refresh means the whole session is gone: the scope is torn
// down and the caller gets the rejection back.
func (e *Engine) RefreshAccess(ctx context.Context, scopeID string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return "", err
	}
	if !sc.Authenticated() || sc.RefreshToken == "" {
		return "", ErrNotAuthenticated
	}

	out, err := e.gateway.Refresh(ctx, sc.RefreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, sc, err, nil)
		if errors.Is(err, gateway.ErrAuthRejected) {
			sc.WipeCredentials()
			sc.State = scope.StateAnonymous
			sc.ClearPending = true
			if saveErr := e.saveScope(ctx, sc); saveErr != nil {
				return "", saveErr
			}
		}
		return "", err
	}

	sc.AccessToken = out.AccessToken
	if out.SessionID != "" {
		// Rotated identifier; the next render pass re-affirms it into
		// browser storage.
		sc.SessionID = out.SessionID
	}
	if err := e.saveScope(ctx, sc); err != nil {
		return "", err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, sc, nil, nil)
	return out.AccessToken, nil
}

package sessionrelay

import (
	"context"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/scope"
)

// Logout tears down the scope's session. Local teardown is unconditional:
// the server-side revocation call is best-effort and a failure there never
// leaves the viewer logged in. The returned pass result carries the CLEAR
// directive; ClearPending stays set so the next render pass re-issues the
// clear if the caller drops this one.
func (e *Engine) Logout(ctx context.Context, scopeID string) (*PassResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	if sc.RefreshToken != "" {
		if err := e.gateway.Logout(ctx, sc.RefreshToken); err != nil {
			e.emitAudit(ctx, auditEventLogout, false, sc, err, func() map[string]string {
				return map[string]string{"revocation": "failed"}
			})
		}
	}

	sc.WipeCredentials()
	sc.State = scope.StateAnonymous
	sc.ClearPending = true

	if err := e.saveScope(ctx, sc); err != nil {
		return nil, err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, sc, nil, nil)

	d := bridge.Clear()
	return e.passResult(sc, &d), nil
}

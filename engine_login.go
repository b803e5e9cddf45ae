package sessionrelay

import (
	"context"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/scope"
)

// Login exchanges credentials for a session and binds it to the scope. The
// returned pass result carries the WRITE directive that mirrors the new
// session identifier into browser storage; remember controls whether the
// durable tiers receive it too.
func (e *Engine) Login(ctx context.Context, scopeID, email, password string, remember bool) (*PassResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	creds, err := e.gateway.Login(ctx, email, password)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, sc, err, nil)
		return nil, err
	}

	sc.AccessToken = creds.AccessToken
	sc.RefreshToken = creds.RefreshToken
	sc.SessionID = creds.SessionID
	sc.Identity = scope.Identity(creds.User)
	sc.Remember = remember
	sc.State = scope.StateAuthenticated
	sc.RestoreAttempts = 0
	sc.EmptyReads = 0
	sc.ClearPending = false

	if err := e.saveScope(ctx, sc); err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, sc, nil, func() map[string]string {
		return map[string]string{"remember": boolString(remember)}
	})

	d := bridge.Write(sc.SessionID, remember)
	return e.passResult(sc, &d), nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

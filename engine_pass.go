package sessionrelay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/gateway"
	"github.com/v7monitor/sessionrelay/scope"
)

// RenderPass advances one scope through a single render pass and returns
// what the page renderer needs: the state to render for and the browser
// directive to embed.
//
// A pass is one full cycle of the recovery protocol: take the browser's
// report if one arrived, reconcile it against the scope record, make at
// most one verify call, and persist the updated record. Callers invoke it
// once per page render; it is safe to call concurrently for distinct
// scopes.
//
// An empty scopeID starts a fresh scope; the generated identifier comes
// back in the result and must be threaded into subsequent passes.
func (e *Engine) RenderPass(ctx context.Context, scopeID string) (*PassResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	sc, err := e.loadScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	report := e.reports.Take(sc.ID)

	var directive *bridge.Directive

	// Browser storage is the source of truth for which session this
	// viewer is in. A scope holding credentials for a different session
	// identifier than the browser reports is stale and starts over from
	// the browser's value.
	if sc.State == scope.StateAuthenticated && report.Usable() && report.SessionID != sc.SessionID {
		e.metricInc(MetricConsistencyViolation)
		e.emitAudit(ctx, auditEventConsistencyViolation, false, sc, nil, func() map[string]string {
			return map[string]string{"reported_session_id_len": fmt.Sprint(len(report.SessionID))}
		})
		sc.WipeCredentials()
		sc.SessionID = report.SessionID
		sc.State = scope.StateRestoring
	}

	switch sc.State {
	case scope.StateUnchecked:
		sc.State = scope.StateRestoring
		sc.RestoreAttempts = 0
		sc.EmptyReads = 0
		e.emitAudit(ctx, auditEventRestoreStarted, true, sc, nil, nil)
		if report.Answered {
			directive = e.passRestoring(ctx, sc, report)
		} else {
			d := bridge.Read()
			directive = &d
		}

	case scope.StateRestoring:
		directive = e.passRestoring(ctx, sc, report)

	case scope.StateAuthenticated:
		// Re-affirm browser storage every pass; the write is idempotent
		// and repairs a tier the browser lost in the meantime.
		d := bridge.Write(sc.SessionID, sc.Remember)
		directive = &d

	case scope.StateAnonymous:
		switch {
		case sc.ClearPending:
			sc.ClearPending = false
			d := bridge.Clear()
			directive = &d
			e.emitAudit(ctx, auditEventBridgeClearIssued, true, sc, nil, nil)
		case report.Usable():
			// A probe answer that arrived after the tolerance window
			// still counts; pick the restore back up.
			sc.SessionID = report.SessionID
			sc.State = scope.StateRestoring
			sc.RestoreAttempts = 0
			sc.EmptyReads = 0
			directive = e.passRestoring(ctx, sc, report)
		}
	}

	if err := e.saveScope(ctx, sc); err != nil {
		return nil, err
	}
	return e.passResult(sc, directive), nil
}

// passRestoring handles one pass of a scope mid-restore: either a verify
// call against a known session identifier, consuming the browser's probe
// answer, or burning one pass of the empty-read tolerance.
func (e *Engine) passRestoring(ctx context.Context, sc *scope.Scope, report bridge.Report) *bridge.Directive {
	if sc.SessionID == "" {
		if !report.Answered {
			sc.EmptyReads++
			if sc.EmptyReads <= e.config.Restore.EmptyReadTolerance {
				d := bridge.Read()
				return &d
			}
			e.metricInc(MetricBridgeEmptyRead)
			e.emitAudit(ctx, auditEventRestoreEmpty, false, sc, nil, nil)
			sc.State = scope.StateAnonymous
			return nil
		}

		if !report.Usable() {
			e.metricInc(MetricBridgeEmptyRead)
			e.emitAudit(ctx, auditEventRestoreEmpty, false, sc, nil, nil)
			sc.State = scope.StateAnonymous
			return nil
		}

		sc.SessionID = report.SessionID
	}

	return e.verifyStored(ctx, sc)
}

// verifyStored makes exactly one verify call for the scope's stored
// session identifier and settles the scope according to the failure
// taxonomy: rejection is terminal and purges the browser, transient
// failures retry up to the attempt ceiling, server errors give up without
// touching the browser.
func (e *Engine) verifyStored(ctx context.Context, sc *scope.Scope) *bridge.Directive {
	sc.RestoreAttempts++

	start := time.Now()
	creds, err := e.gateway.VerifySession(ctx, sc.SessionID, sc.RefreshToken)
	if e.metrics != nil {
		e.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}

	switch {
	case err == nil:
		sc.AccessToken = creds.AccessToken
		sc.RefreshToken = creds.RefreshToken
		if creds.SessionID != "" {
			sc.SessionID = creds.SessionID
		}
		sc.Identity = scope.Identity(creds.User)
		sc.State = scope.StateAuthenticated
		sc.RestoreAttempts = 0
		sc.EmptyReads = 0
		e.metricInc(MetricRestoreSuccess)
		e.emitAudit(ctx, auditEventRestoreSuccess, true, sc, nil, nil)
		d := bridge.Write(sc.SessionID, sc.Remember)
		return &d

	case errors.Is(err, gateway.ErrAuthRejected):
		e.metricInc(MetricRestoreRejected)
		e.emitAudit(ctx, auditEventRestoreRejected, false, sc, err, nil)
		sc.WipeCredentials()
		sc.State = scope.StateAnonymous
		e.emitAudit(ctx, auditEventBridgeClearIssued, true, sc, nil, nil)
		d := bridge.Clear()
		return &d

	case gateway.Transient(err):
		e.metricInc(MetricRestoreTransient)
		if sc.RestoreAttempts >= e.config.Restore.MaxRestoreAttempts {
			// Give up, but leave the browser value alone: the stored
			// identifier may still be valid once the backend recovers.
			e.metricInc(MetricRestoreExhausted)
			e.emitAudit(ctx, auditEventRestoreExhausted, false, sc, err, nil)
			sc.WipeCredentials()
			sc.State = scope.StateAnonymous
			return nil
		}
		e.emitAudit(ctx, auditEventRestoreRetry, false, sc, err, func() map[string]string {
			return map[string]string{"attempt": fmt.Sprint(sc.RestoreAttempts)}
		})
		return nil

	default:
		// Server errors and anything unclassified end the cycle without
		// purging the browser.
		e.metricInc(MetricRestoreExhausted)
		e.emitAudit(ctx, auditEventRestoreExhausted, false, sc, err, nil)
		sc.WipeCredentials()
		sc.State = scope.StateAnonymous
		return nil
	}
}

func (e *Engine) loadScope(ctx context.Context, scopeID string) (*scope.Scope, error) {
	if scopeID == "" {
		return scope.New(), nil
	}

	sc, err := e.scopes.Get(ctx, scopeID)
	if errors.Is(err, scope.ErrNotFound) {
		sc = scope.New()
		sc.ID = scopeID
		return sc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}
	return sc, nil
}

func (e *Engine) saveScope(ctx context.Context, sc *scope.Scope) error {
	sc.UpdatedAt = time.Now().UTC()
	if err := e.scopes.Save(ctx, sc, e.config.Scope.TTL); err != nil {
		return fmt.Errorf("%w: %v", ErrScopeUnavailable, err)
	}
	return nil
}

func (e *Engine) passResult(sc *scope.Scope, directive *bridge.Directive) *PassResult {
	r := &PassResult{
		ScopeID:       sc.ID,
		State:         sc.State,
		Authenticated: sc.Authenticated(),
		Identity:      sc.Identity,
		AccessToken:   sc.AccessToken,
		Directive:     directive,
	}
	if directive != nil {
		r.Script = directive.Script(e.config.Bridge, sc.ID)
	}
	return r
}

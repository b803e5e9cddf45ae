package sessionrelay

import (
	"context"
	"errors"
	"time"

	"github.com/v7monitor/sessionrelay/gateway"
	"github.com/v7monitor/sessionrelay/scope"
)

const (
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventRestoreStarted       = "restore_started"
	auditEventRestoreSuccess       = "restore_success"
	auditEventRestoreRejected      = "restore_rejected"
	auditEventRestoreRetry         = "restore_retry"
	auditEventRestoreExhausted     = "restore_exhausted"
	auditEventRestoreEmpty         = "restore_empty"
	auditEventConsistencyViolation = "consistency_violation"
	auditEventLogout               = "logout"
	auditEventRefreshSuccess       = "refresh_success"
	auditEventRefreshFailure       = "refresh_failure"
	auditEventBridgeClearIssued    = "bridge_clear_issued"
)

// AuditErrorCode is the coarse failure classification stamped onto events.
type AuditErrorCode string

const (
	auditErrTimeout      AuditErrorCode = "timeout"
	auditErrConnection   AuditErrorCode = "connection"
	auditErrAuthRejected AuditErrorCode = "auth_rejected"
	auditErrServerError  AuditErrorCode = "server_error"
	auditErrMissingInput AuditErrorCode = "missing_input"
	auditErrStoreDown    AuditErrorCode = "store_unavailable"
	auditErrInternal     AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	sc *scope.Scope,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if sc != nil {
		event.ScopeID = sc.ID
		event.UserID = sc.Identity.UserID
		event.SessionID = sc.SessionID
		event.State = sc.State.String()
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, gateway.ErrTimeout):
		return auditErrTimeout
	case errors.Is(err, gateway.ErrConnection):
		return auditErrConnection
	case errors.Is(err, gateway.ErrAuthRejected):
		return auditErrAuthRejected
	case errors.Is(err, gateway.ErrServerError):
		return auditErrServerError
	case errors.Is(err, gateway.ErrMissingCredentials),
		errors.Is(err, gateway.ErrMissingSessionID),
		errors.Is(err, ErrMissingCredentials):
		return auditErrMissingInput
	case errors.Is(err, scope.ErrStoreUnavailable),
		errors.Is(err, ErrScopeUnavailable):
		return auditErrStoreDown
	default:
		return auditErrInternal
	}
}

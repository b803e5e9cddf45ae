package bridge

import (
	"net/http"
	"time"
)

// MinSessionIDLength is the sanity floor for a stored session identifier.
// Anything shorter is treated as corrupt or truncated and discarded without
// a round-trip to the verification endpoint.
const MinSessionIDLength = 20

const (
	// DefaultStorageKey is the logical key name shared by all three tiers.
	DefaultStorageKey = "v7_session_id"

	// DefaultCallbackPath is the POST endpoint the generated READ script
	// reports into.
	DefaultCallbackPath = "/session/report"

	// DefaultCookieTTL is the cookie-tier expiry applied on WRITE.
	DefaultCookieTTL = 7 * 24 * time.Hour
)

// Mode selects the browser-side operation for one render pass. Exactly one
// mode is issued per pass.
type Mode uint8

const (
	// ModeRead probes the tiers in priority order (tab, durable, cookie)
	// and reports the first value passing the length sanity check.
	ModeRead Mode = iota
	// ModeWrite stores the session identifier into the tab tier and, when
	// persistence was requested, into the durable and cookie tiers.
	ModeWrite
	// ModeClear removes the value from every tier it can reach.
	ModeClear
)

// String describes the mode for audit metadata and test failures.
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Config controls key naming, report transport, and cookie attributes.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	StorageKey     string
	CallbackPath   string
	CookieTTL      time.Duration
	CookieSecure   bool
	SameSitePolicy http.SameSite
}

// DefaultConfig returns the bridge defaults used when the caller does not
// override them.
func DefaultConfig() Config {
	return Config{
		StorageKey:     DefaultStorageKey,
		CallbackPath:   DefaultCallbackPath,
		CookieTTL:      DefaultCookieTTL,
		CookieSecure:   true,
		SameSitePolicy: http.SameSiteLaxMode,
	}
}

// Directive is one bridge invocation: the mode plus the value it operates
// on. Directives are value types; issuing the same WRITE directive on every
// render pass leaves the tiers unchanged.
type Directive struct {
	Mode      Mode
	SessionID string
	Persist   bool
}

// Read returns a READ directive.
func Read() Directive {
	return Directive{Mode: ModeRead}
}

// Write returns a WRITE directive for the given session identifier.
// Durable tiers are only touched when persist is true.
func Write(sessionID string, persist bool) Directive {
	return Directive{Mode: ModeWrite, SessionID: sessionID, Persist: persist}
}

// Clear returns a CLEAR directive.
func Clear() Directive {
	return Directive{Mode: ModeClear}
}

// UsableSessionID reports whether a value retrieved from browser storage is
// worth presenting to the verification endpoint. This is a sanity check, not
// an integrity check: it rejects obviously corrupt or truncated values.
func UsableSessionID(s string) bool {
	if len(s) < MinSessionIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f {
			return false
		}
	}
	return true
}

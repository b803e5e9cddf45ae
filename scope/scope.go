package scope

import (
	"time"

	"github.com/google/uuid"
)

// State is the authentication lifecycle state of one scope.
type State uint8

const (
	// StateUnchecked marks a scope that has never probed the browser.
	StateUnchecked State = iota

	// StateRestoring marks a scope with a restore pass in flight: the
	// browser has been asked for a stored session identifier and the
	// answer has not arrived yet.
	StateRestoring

	// StateAuthenticated marks a scope holding verified credentials.
	StateAuthenticated

	// StateAnonymous marks a scope that has conclusively no session.
	StateAnonymous
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Identity is the presentational identity attached to an authenticated
// scope. It is never used as an authorization input.
type Identity struct {
	Email            string `json:"email"`
	Username         string `json:"username"`
	SubscriptionTier string `json:"subscription_tier"`
	UserID           string `json:"user_id"`
}

// Scope is the per-viewer session record persisted between render passes.
// The zero value is not usable; create records with New.
type Scope struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	AccessToken  string   `json:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	SessionID    string   `json:"session_id,omitempty"`
	Identity     Identity `json:"identity"`

	// Remember records whether the viewer asked for durable persistence
	// at login. It controls which browser tiers receive the session
	// identifier.
	Remember bool `json:"remember"`

	// RestoreAttempts counts completed verify attempts for the current
	// restore cycle. EmptyReads counts consecutive browser probes that
	// came back without an answer.
	RestoreAttempts int `json:"restore_attempts"`
	EmptyReads      int `json:"empty_reads"`

	// ClearPending is set by logout: the next render pass must instruct
	// the browser to wipe every storage tier.
	ClearPending bool `json:"clear_pending"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns a fresh unchecked scope with a generated identifier.
func New() *Scope {
	now := time.Now().UTC()
	return &Scope{
		ID:        NewID(),
		State:     StateUnchecked,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID returns a fresh scope identifier.
func NewID() string {
	return uuid.NewString()
}

// Authenticated reports whether the scope holds a verified credential set.
func (s *Scope) Authenticated() bool {
	return s.State == StateAuthenticated && s.AccessToken != ""
}

// WipeCredentials removes every credential field and resets the restore
// counters, leaving the lifecycle state to the caller.
func (s *Scope) WipeCredentials() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.SessionID = ""
	s.Identity = Identity{}
	s.Remember = false
	s.RestoreAttempts = 0
	s.EmptyReads = 0
}

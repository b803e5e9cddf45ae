package scope

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a scope record does not exist or has
// expired.
var ErrNotFound = errors.New("scope: not found")

// ErrStoreUnavailable wraps backend outages so callers can distinguish a
// missing record from an unreachable store.
var ErrStoreUnavailable = errors.New("scope: store unavailable")

// Store persists scope records between render passes.
//
// Implementations must return deep copies (or freshly decoded records) so
// concurrent passes never share a *Scope, and must honor the TTL given to
// Save: a record past its TTL behaves as absent.
type Store interface {
	Get(ctx context.Context, id string) (*Scope, error)
	Save(ctx context.Context, s *Scope, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

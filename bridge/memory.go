package bridge

import "sync"

// Tier identifies one of the three browser storage locations.
type Tier uint8

const (
	// TierTab is the tab-scoped store (sessionStorage). Survives reloads
	// within one tab, cleared on browser restart.
	TierTab Tier = iota
	// TierDurable is the origin-persistent store (localStorage).
	TierDurable
	// TierCookie is the cookie tier.
	TierCookie
)

// MemoryBrowser emulates the three storage tiers and the one-pass report
// lag of a real browser. Directives applied during pass N produce reports
// observable at pass N+1, exactly like the production script round-trip.
// It exists for tests and the bundled example; nothing in the library
// depends on it.
type MemoryBrowser struct {
	mu       sync.Mutex
	tab      map[string]string
	durable  map[string]string
	cookies  map[string]string
	pending  []Report
	disabled map[Tier]bool
}

// NewMemoryBrowser creates an empty emulated browser.
func NewMemoryBrowser() *MemoryBrowser {
	return &MemoryBrowser{
		tab:      make(map[string]string),
		durable:  make(map[string]string),
		cookies:  make(map[string]string),
		disabled: make(map[Tier]bool),
	}
}

// DisableTier makes a tier unavailable, emulating privacy modes that deny
// storage access. Operations against a disabled tier silently fail, as the
// guarded script would.
func (b *MemoryBrowser) DisableTier(t Tier) {
	b.mu.Lock()
	b.disabled[t] = true
	b.mu.Unlock()
}

// Exec applies a directive the way the generated script would, using key as
// the shared storage key. READ directives enqueue a report retrievable via
// NextReport on a later pass.
func (b *MemoryBrowser) Exec(scopeID, key string, d Directive) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch d.Mode {
	case ModeWrite:
		if !b.disabled[TierTab] {
			b.tab[key] = d.SessionID
		}
		if d.Persist {
			if !b.disabled[TierDurable] {
				b.durable[key] = d.SessionID
			}
			if !b.disabled[TierCookie] {
				b.cookies[key] = d.SessionID
			}
		}
	case ModeClear:
		if !b.disabled[TierTab] {
			delete(b.tab, key)
		}
		if !b.disabled[TierDurable] {
			delete(b.durable, key)
		}
		if !b.disabled[TierCookie] {
			delete(b.cookies, key)
		}
	case ModeRead:
		r := Report{ScopeID: scopeID, Answered: true}
		if v, ok := b.read(key); ok && UsableSessionID(v) {
			r.Found = true
			r.SessionID = v
		}
		b.pending = append(b.pending, r)
	}
}

func (b *MemoryBrowser) read(key string) (string, bool) {
	if !b.disabled[TierTab] {
		if v, ok := b.tab[key]; ok && v != "" {
			return v, true
		}
	}
	if !b.disabled[TierDurable] {
		if v, ok := b.durable[key]; ok && v != "" {
			return v, true
		}
	}
	if !b.disabled[TierCookie] {
		if v, ok := b.cookies[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// NextReport pops the oldest pending report. ok is false when no READ has
// completed since the last call, which models the "no value yet" window
// after a fresh page load.
func (b *MemoryBrowser) NextReport() (Report, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return Report{}, false
	}
	r := b.pending[0]
	b.pending = b.pending[1:]
	return r, true
}

// Restart emulates closing and reopening the browser: the tab tier is lost,
// durable and cookie tiers survive, and any in-flight reports are dropped.
func (b *MemoryBrowser) Restart() {
	b.mu.Lock()
	b.tab = make(map[string]string)
	b.pending = nil
	b.mu.Unlock()
}

// Peek returns the raw value held by one tier, for test assertions.
func (b *MemoryBrowser) Peek(t Tier, key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var v string
	var ok bool
	switch t {
	case TierTab:
		v, ok = b.tab[key]
	case TierDurable:
		v, ok = b.durable[key]
	case TierCookie:
		v, ok = b.cookies[key]
	}
	return v, ok
}

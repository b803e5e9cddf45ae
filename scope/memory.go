package scope

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	record    Scope
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-node deployments and
// tests. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Store. Expired records are treated as absent and reaped.
func (m *MemoryStore) Get(_ context.Context, id string) (*Scope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	out := entry.record
	return &out, nil
}

// Save implements Store. A non-positive TTL stores the record without
// expiry.
func (m *MemoryStore) Save(_ context.Context, s *Scope, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{record: *s}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[s.ID] = entry
	return nil
}

// Delete implements Store. Deleting an absent record is not an error.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

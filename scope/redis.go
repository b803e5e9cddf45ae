package scope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "sr"

// RedisStore persists scope records in Redis so multiple dashboard
// replicas can serve the same viewer. Records are stored as JSON under
// prefix:scope:<id> with the TTL applied by Redis itself.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client. An empty prefix falls back
// to "sr".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + ":scope:" + id
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, id string) (*Scope, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var s Scope
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt blob behaves as absent; the engine starts the scope
		// over rather than acting on half-decoded credentials.
		return nil, ErrNotFound
	}
	return &s, nil
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, s *Scope, ttl time.Duration) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(s.ID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete implements Store. Deleting an absent record is not an error.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

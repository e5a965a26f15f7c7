package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mvc/core/session"
)

// DefaultSessionPrefix namespaces session keys.
const DefaultSessionPrefix = "session:"

// SessionStore keeps session values as JSON strings with a native TTL.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a Redis-backed session store. An empty prefix
// falls back to DefaultSessionPrefix.
func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

// Load implements session.Store.
func (s *SessionStore) Load(ctx context.Context, id string) (session.Values, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var values session.Values
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Join(ErrCorruptedEntry, err)
	}
	if values == nil {
		values = session.Values{}
	}
	return values, nil
}

// Save implements session.Store.
func (s *SessionStore) Save(ctx context.Context, id string, values session.Values, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, max(ttl, 0)).Err()
}

// Delete implements session.Store.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

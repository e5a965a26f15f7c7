package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCachePrefix namespaces cache keys.
const DefaultCachePrefix = "cache:"

// CacheStore implements cache.Store on top of Redis strings.
type CacheStore struct {
	client redis.UniversalClient
	prefix string
}

// NewCacheStore creates a Redis-backed cache store. An empty prefix falls
// back to DefaultCachePrefix.
func NewCacheStore(client redis.UniversalClient, prefix string) *CacheStore {
	if prefix == "" {
		prefix = DefaultCachePrefix
	}
	return &CacheStore{client: client, prefix: prefix}
}

// Get returns the cached bytes for key.
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Put stores value under key for ttl.
func (s *CacheStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, max(ttl, 0)).Err()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// NamespaceRequest prefixes keys of memoized action output.
const NamespaceRequest = "req"

// DefaultCapacity is the MemoryStore capacity used when none is given.
const DefaultCapacity = 10000

// ErrKeyParts is returned when key parts cannot be serialized.
var ErrKeyParts = errors.New("cache key parts are not serializable")

// Store holds opaque byte values with a time-to-live.
type Store interface {
	// Get returns the value for key. A missing or expired key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value for ttl. A non-positive ttl means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a deterministic key "<namespace>:<16 hex digits>" from parts.
// Parts are JSON-encoded, so map arguments yield the same key regardless of
// insertion order.
func Key(namespace string, parts ...any) (string, error) {
	payload, err := json.Marshal(parts)
	if err != nil {
		return "", errors.Join(ErrKeyParts, err)
	}
	return fmt.Sprintf("%s:%016x", namespace, xxhash.Sum64(payload)), nil
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a process-local Store backed by LRUCache.
type MemoryStore struct {
	items *LRUCache[string, memoryItem]
	now   func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store holding at most capacity entries.
func NewMemoryStore(capacity int, opts ...MemoryOption) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &MemoryStore{
		items: NewLRUCache[string, memoryItem](capacity),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		s.items.Remove(key)
		return nil, false, nil
	}
	return append([]byte(nil), item.value...), true, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.items.Put(key, item)
	return nil
}

// Len returns the number of entries, expired ones included until read.
func (s *MemoryStore) Len() int {
	return s.items.Len()
}

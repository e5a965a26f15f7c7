package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Session is key/value data scoped to one client. Every mutation is written
// to the store before the call returns.
type Session struct {
	id    string
	store Store
	ttl   time.Duration

	mu      sync.RWMutex
	values  Values
	expired bool
}

// New returns a session bound to store. A nil values map starts empty.
func New(id string, store Store, values Values, ttl time.Duration) *Session {
	if values == nil {
		values = make(Values)
	}
	return &Session{
		id:     id,
		store:  store,
		ttl:    ttl,
		values: values,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Get decodes the value stored under key into dest.
func (s *Session) Get(key string, dest any) error {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return ErrKeyNotFound
	}
	return json.Unmarshal(raw, dest)
}

// Value returns the value stored under key decoded into generic Go types,
// or nil when absent. Intended for templates.
func (s *Session) Value(key string) any {
	var v any
	if err := s.Get(key, &v); err != nil {
		return nil
	}
	return v
}

// Has reports whether key is stored.
func (s *Session) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *Session) Keys() []string {
	s.mu.RLock()
	keys := s.values.Keys()
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Put stores value under key and persists the session.
func (s *Session) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncodeValue, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired {
		return ErrExpired
	}

	prev, had := s.values[key]
	s.values[key] = raw
	if err := s.persist(ctx); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// Remove deletes key, decoding its previous value into dest when dest is
// not nil, and persists the session.
func (s *Session) Remove(ctx context.Context, key string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[key]
	if !ok {
		return ErrKeyNotFound
	}

	delete(s.values, key)
	if err := s.persist(ctx); err != nil {
		s.values[key] = raw
		return err
	}

	if dest != nil {
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("decode removed value %q: %w", key, err)
		}
	}
	return nil
}

// Expire clears all data and deletes the stored session. Calling it again
// is a no-op.
func (s *Session) Expire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired {
		return nil
	}

	if err := s.store.Delete(ctx, s.id); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}

	s.values = make(Values)
	s.expired = true
	return nil
}

// IsExpired reports whether Expire has been called.
func (s *Session) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired
}

// persist must be called with s.mu held.
func (s *Session) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.id, s.values.Clone(), s.ttl); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	return nil
}

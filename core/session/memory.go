package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/mvc/core/logger"
)

// DefaultCleanupInterval is how often MemoryStore sweeps expired sessions.
const DefaultCleanupInterval = time.Minute

type memoryEntry struct {
	values    Values
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps sessions in process memory. Suited to development and
// single-instance deployments; data is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry

	interval time.Duration
	logger   *slog.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	now      func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithCleanupInterval sets the sweep interval for StartCleanup.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithStoreLogger sets the logger used by the cleanup loop.
func WithStoreLogger(l *slog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		interval: DefaultCleanupInterval,
		logger:   logger.Discard(),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (Values, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || entry.expired(s.now()) {
		return nil, ErrNotFound
	}
	return entry.values.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, id string, values Values, ttl time.Duration) error {
	entry := memoryEntry{values: values.Clone()}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartCleanup starts a goroutine that periodically removes expired sessions.
// It exits when ctx is done or Stop is called.
func (s *MemoryStore) StartCleanup(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *MemoryStore) Cleanup() int {
	now := s.now()

	s.mu.Lock()
	cleaned := 0
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
			cleaned++
		}
	}
	s.mu.Unlock()

	if cleaned > 0 {
		s.logger.Debug("cleaned expired sessions",
			logger.Component("session"),
			slog.Int("count", cleaned),
		)
	}
	return cleaned
}

// Stop stops the cleanup goroutine and waits for it to exit.
// Safe to call multiple times.
func (s *MemoryStore) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

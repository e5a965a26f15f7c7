package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/handler"
	"github.com/dmitrymomot/mvc/core/logger"
)

const (
	// DefaultCookieName is the cookie carrying the signed session id.
	DefaultCookieName = "sid"
	// DefaultTTL is the session lifetime used when none is configured.
	DefaultTTL = 24 * time.Hour
)

// Manager binds sessions to clients through a signed id cookie.
type Manager struct {
	store      Store
	cookies    *cookie.Manager
	cookieName string
	ttl        time.Duration
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the session id cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithTTL sets the session lifetime, used both for the store entry and the cookie.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for degraded-path diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a session manager. It panics if store or cookies is nil,
// since that is a wiring mistake.
func NewManager(store Store, cookies *cookie.Manager, opts ...Option) *Manager {
	if store == nil {
		panic("session: store is required")
	}
	if cookies == nil {
		panic("session: cookie manager is required")
	}

	m := &Manager{
		store:      store,
		cookies:    cookies,
		cookieName: DefaultCookieName,
		ttl:        DefaultTTL,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// CookieName returns the session id cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Start returns the session of the current client. A missing, tampered or
// unknown id starts a fresh session, saves it empty and writes a new id
// cookie, so later requests of the same client share one id.
func (m *Manager) Start(ctx handler.Context) (*Session, error) {
	id, err := m.cookies.GetSigned(ctx.Request(), m.cookieName)
	if err == nil {
		sess, err := m.load(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidID) {
			return nil, err
		}
		m.logger.DebugContext(ctx, "session not restored, starting a new one",
			logger.Component("session"),
			logger.Error(err),
		)
	} else if !errors.Is(err, cookie.ErrCookieNotFound) {
		m.logger.WarnContext(ctx, "invalid session cookie",
			logger.Component("session"),
			logger.Error(err),
		)
	}

	return m.create(ctx)
}

// Destroy expires the session and removes the id cookie.
func (m *Manager) Destroy(ctx handler.Context, sess *Session) error {
	if sess != nil {
		if err := sess.Expire(ctx); err != nil {
			return err
		}
	}
	m.cookies.Delete(ctx.ResponseWriter(), m.cookieName)
	return nil
}

func (m *Manager) load(ctx handler.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	values, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return New(id, m.store, values, m.ttl), nil
}

func (m *Manager) create(ctx handler.Context) (*Session, error) {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, Values{}, m.ttl); err != nil {
		return nil, fmt.Errorf("save new session: %w", err)
	}
	if err := m.cookies.SetSigned(ctx.ResponseWriter(), m.cookieName, id,
		cookie.WithMaxAge(int(m.ttl/time.Second)),
	); err != nil {
		return nil, fmt.Errorf("write session cookie: %w", err)
	}
	return New(id, m.store, Values{}, m.ttl), nil
}

package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/mvc/core/cookie"
)

// Config provides environment-based configuration for the session manager.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	// CleanupInterval drives MemoryStore.StartCleanup.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1m"`
}

// NewManagerFromConfig creates a Manager from configuration.
func NewManagerFromConfig(cfg Config, store Store, cookies *cookie.Manager, log *slog.Logger) *Manager {
	return NewManager(store, cookies,
		WithCookieName(cfg.CookieName),
		WithTTL(cfg.TTL),
		WithLogger(log),
	)
}

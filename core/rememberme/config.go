package rememberme

import (
	"log/slog"

	"github.com/dmitrymomot/mvc/core/cookie"
)

// Config provides environment-based configuration for remember-me cookies.
type Config struct {
	CookieName string `env:"REMEMBER_ME_COOKIE" envDefault:"rm"`
	MaxAge     int    `env:"REMEMBER_ME_MAX_AGE" envDefault:"31536000" validate:"gte=0"`
	Signed     bool   `env:"REMEMBER_ME_SIGNED" envDefault:"false"`
}

// NewFromConfig creates a Manager from configuration.
func NewFromConfig(cfg Config, cookies *cookie.Manager, log *slog.Logger) *Manager {
	return New(cookies,
		WithCookieName(cfg.CookieName),
		WithMaxAge(cfg.MaxAge),
		WithSigned(cfg.Signed),
		WithLogger(log),
	)
}

package main

import (
	"time"

	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/rememberme"
	"github.com/dmitrymomot/mvc/core/server"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/core/view"
)

const (
	envDevelopment = "development"
	envProduction  = "production"
)

// Config is the demo configuration. Backend settings (REDIS_URL,
// PG_CONN_URL) are optional; without them everything runs in memory.
type Config struct {
	AppName  string        `env:"APP_NAME" envDefault:"mvcdemo" validate:"required"`
	Env      string        `env:"APP_ENV" envDefault:"development" validate:"oneof=development production"`
	RedisURL string        `env:"REDIS_URL"`
	PGURL    string        `env:"PG_CONN_URL"`
	CacheTTL time.Duration `env:"ACTION_CACHE_TTL" envDefault:"1m"`

	Server     server.Config
	Cookie     cookie.Config
	Session    session.Config
	RememberMe rememberme.Config
	View       view.Config
}

func (c Config) dev() bool {
	return c.Env == envDevelopment
}

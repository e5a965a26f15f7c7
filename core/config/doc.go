// Package config loads typed configuration from environment variables.
//
// An optional .env file is loaded once, struct fields are filled by
// caarlos0/env according to their `env` and `envDefault` tags, and the result
// is validated against its `validate` tags. Each type is loaded only once and
// cached for subsequent calls.
//
//	type AppConfig struct {
//		Env  string `env:"APP_ENV" envDefault:"development" validate:"oneof=development production"`
//		Addr string `env:"SERVER_ADDR" envDefault:":8080" validate:"required"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config

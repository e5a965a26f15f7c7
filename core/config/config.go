package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	// ErrNotPointer is returned when Load receives a non-pointer value.
	ErrNotPointer = errors.New("config: target must be a non-nil pointer to a struct")
	// ErrParse is returned when environment variables cannot be parsed.
	ErrParse = errors.New("config: failed to parse environment")
	// ErrInvalid is returned when the parsed struct fails validation.
	ErrInvalid = errors.New("config: validation failed")
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> reflect.Value (struct copy)
	validate   = validator.New(validator.WithRequiredStructEnabled())
)

// Load populates cfg from the environment. The first call for a type parses
// the environment (after loading an optional .env file) and validates the
// result with `validate` struct tags; later calls for the same type return the
// cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotPointer
	}
	typ := reflect.TypeOf(cfg).Elem()
	if typ.Kind() != reflect.Struct {
		return ErrNotPointer
	}

	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return errors.Join(ErrParse, err)
	}
	if err := validate.Struct(&loaded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	actual, _ := cache.LoadOrStore(typ, loaded)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on error. Useful during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops all cached configurations. Intended for tests.
func Reset() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}

package controller

import (
	"encoding/json"
	"html/template"
	"reflect"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/mvc/core/cache"
	"github.com/dmitrymomot/mvc/core/handler"
	"github.com/dmitrymomot/mvc/core/logger"
)

// NoCacheArg is the reserved argument that bypasses the cache. It is never
// part of the cache key.
const NoCacheArg = "nocache"

// DefaultCacheTTL is how long cached action output is kept.
const DefaultCacheTTL = 24 * time.Hour

type cacheOptions struct {
	ttl time.Duration
}

// CacheOption configures Cached.
type CacheOption func(*cacheOptions)

// WithTTL sets how long cached output is kept.
func WithTTL(ttl time.Duration) CacheOption {
	return func(o *cacheOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// Cached memoizes the body output keyed by controller, action and arguments.
// A hit skips the body. Errors and empty output are never cached, and cache
// store failures degrade to a miss. Markup output is cached as text and
// replayed as template.HTML; anything else is cached as JSON and replayed as
// json.RawMessage.
func Cached(store cache.Store, opts ...CacheOption) Decorator {
	o := cacheOptions{ttl: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next ActionFunc) ActionFunc {
		return func(c *Context) (any, error) {
			ctrl, action := c.controller.name, c.action.Name
			original := c.Args()
			bypass := original.Bool(NoCacheArg)

			a := original.Without(NoCacheArg)
			c.SetArgs(a)
			defer c.SetArgs(original)

			if bypass {
				c.router.metrics.cacheLookup(ctrl, action, "bypass")
				return next(c)
			}

			key, err := cache.Key(cache.NamespaceRequest, ctrl, action, a)
			if err != nil {
				c.logger.WarnContext(c, "cache key failed", logger.Error(err))
				return next(c)
			}

			if b, ok, err := store.Get(c, key); err != nil {
				c.logger.WarnContext(c, "cache read failed", logger.Key("key", key), logger.Error(err))
			} else if ok {
				c.router.metrics.cacheLookup(ctrl, action, "hit")
				c.logger.DebugContext(c, "read request from cache", logger.Key("key", key))
				return decodeCached(b), nil
			}
			c.router.metrics.cacheLookup(ctrl, action, "miss")

			out, err := next(c)
			if err != nil {
				return nil, err
			}

			payload, ok, err := encodeCached(c, out)
			if err != nil || !ok {
				return out, nil
			}
			if err := store.Put(c, key, payload, o.ttl); err != nil {
				c.logger.WarnContext(c, "cache write failed", logger.Key("key", key), logger.Error(err))
			} else {
				c.logger.DebugContext(c, "caching request", logger.Key("key", key))
			}
			return replay(out, payload), nil
		}
	}
}

// Cached payloads carry a one-byte tag: 'h' for markup, 'j' for JSON.
const (
	tagMarkup = 'h'
	tagJSON   = 'j'
)

// encodeCached serializes out. ok is false for output that must not be
// cached: empty values and HTTP responses.
func encodeCached(c *Context, out any) ([]byte, bool, error) {
	if isEmpty(out) {
		return nil, false, nil
	}

	switch out.(type) {
	case handler.Response:
		return nil, false, nil
	case string, template.HTML, []byte, templ.Component:
		s, err := renderToString(c, out)
		if err != nil || s == "" {
			return nil, false, err
		}
		return append([]byte{tagMarkup}, s...), true, nil
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, false, err
	}
	return append([]byte{tagJSON}, b...), true, nil
}

func decodeCached(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	if b[0] == tagMarkup {
		return template.HTML(b[1:])
	}
	return json.RawMessage(b[1:])
}

// replay returns what a cache hit would return for the same payload, so a
// miss and a hit look identical to the caller. Plain Go values are kept as
// produced.
func replay(out any, payload []byte) any {
	if payload[0] == tagMarkup {
		return template.HTML(payload[1:])
	}
	return out
}

// isEmpty reports falsy output: nil, zero-length strings, maps and
// slices, nil pointers, false and numeric zero.
func isEmpty(out any) bool {
	if out == nil {
		return true
	}
	v := reflect.ValueOf(out)
	switch v.Kind() {
	case reflect.String, reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return v.IsZero()
	}
	return false
}

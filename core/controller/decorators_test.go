package controller_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/cache"
	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/session"
)

func login(u session.User) controller.ActionFunc {
	return func(c *controller.Context) (any, error) {
		return nil, c.Login(u)
	}
}

func TestAuthDecorators(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ok := func(*controller.Context) (any, error) { return "ok", nil }
	e.router.MustRegister(controller.New("c", "c").
		Async("login", login(session.User{ID: 1, Name: "Ann"})).
		Async("login_admin", login(session.User{ID: 2, Roles: []string{session.RoleAdmin}})).
		Async("logout", func(c *controller.Context) (any, error) { return nil, c.Logout() }).
		Render("profile", ok, controller.Authenticated()).
		Render("admin", ok, controller.AdminOnly()).
		Async("admin_api", ok, controller.AdminOnly()))

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		rec := e.get("/c/profile")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Authentication required", rec.Body.String())

		rec = e.get("/c/admin")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Page outside of scope", rec.Body.String())

		rec = e.get("/c/admin_api")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"code":"unauthorized","message":"Page outside of scope"}`, rec.Body.String())
	})

	t.Run("user", func(t *testing.T) {
		t.Parallel()
		sid := cookieNamed(e.get("/c/login"), session.DefaultCookieName)
		require.NotNil(t, sid)

		assert.Equal(t, http.StatusOK, e.get("/c/profile", sid).Code)
		assert.Equal(t, http.StatusUnauthorized, e.get("/c/admin", sid).Code)

		e.get("/c/logout", sid)
		assert.Equal(t, http.StatusForbidden, e.get("/c/profile", sid).Code)
	})

	t.Run("admin", func(t *testing.T) {
		t.Parallel()
		sid := cookieNamed(e.get("/c/login_admin"), session.DefaultCookieName)
		require.NotNil(t, sid)

		rec := e.get("/c/admin", sid)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}

func TestDevOnly(t *testing.T) {
	t.Parallel()

	register := func(e *env) {
		e.router.MustRegister(controller.New("c", "c").
			Async("debug", func(*controller.Context) (any, error) { return "dev", nil }, controller.DevOnly()).
			Render("page", func(*controller.Context) (any, error) { return "dev", nil }, controller.DevOnly()))
	}

	prod := newEnv(t)
	register(prod)
	assert.JSONEq(t, `{"success":false,"error":"not accessible"}`, prod.get("/c/debug").Body.String())
	assert.Equal(t, http.StatusInternalServerError, prod.get("/c/page").Code)

	dev := newEnv(t, controller.WithDevMode(true))
	register(dev)
	assert.JSONEq(t, `{"success":true,"data":"dev"}`, dev.get("/c/debug").Body.String())
	assert.Equal(t, "dev", dev.get("/c/page").Body.String())
}

func TestWebPage(t *testing.T) {
	t.Parallel()

	body := func(*controller.Context) (any, error) { return "<main/>", nil }
	register := func(e *env) {
		e.router.MustRegister(controller.New("home", "home").
			Render("full", body, controller.WebPage()).
			Render("blank", body, controller.WebPageBlank()))
	}

	e := newEnv(t)
	register(e)

	out := e.get("/home/full").Body.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>home.full</title>")
	assert.Contains(t, out, "<header/>\n<main/>\n<footer/>")
	assert.NotContains(t, out, "dev_debug")

	out = e.get("/home/blank").Body.String()
	assert.Contains(t, out, "<main/>")
	assert.NotContains(t, out, "<header/>")

	dev := newEnv(t, controller.WithDevMode(true))
	register(dev)
	assert.Contains(t, dev.get("/home/full").Body.String(), "<div class='dev_debug'>")
}

// countingStore wraps a cache store and can be made to fail.
type countingStore struct {
	*cache.MemoryStore
	fail atomic.Bool
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.fail.Load() {
		return nil, false, errors.New("cache down")
	}
	return s.MemoryStore.Get(ctx, key)
}

func TestCached(t *testing.T) {
	t.Parallel()

	newCached := func(t *testing.T, store cache.Store) (*env, *atomic.Int32, *[]string) {
		t.Helper()
		var calls atomic.Int32
		var hooks []string

		e := newEnv(t)
		e.router.MustRegister(controller.New("home", "home",
			controller.WithBeforeAction(func(c *controller.Context) error {
				hooks = append(hooks, "before")
				return nil
			}),
			controller.WithAfterAction(func(c *controller.Context) error {
				hooks = append(hooks, "after")
				return nil
			}),
		).
			Async("stats", func(c *controller.Context) (any, error) {
				n := calls.Add(1)
				return map[string]any{"q": c.Args().String("q"), "n": n}, nil
			}, controller.Cached(store)).
			Render("page", func(c *controller.Context) (any, error) {
				calls.Add(1)
				return "<p>" + c.Args().String("q") + "</p>", nil
			}, controller.Cached(store, controller.WithTTL(time.Minute))).
			Async("empty", func(*controller.Context) (any, error) {
				calls.Add(1)
				return nil, nil
			}, controller.Cached(store)).
			Async("typed", func(c *controller.Context) (any, error) {
				calls.Add(1)
				switch c.Args().String("kind") {
				case "map":
					return map[string]int{}, nil
				case "slice":
					return []string{}, nil
				case "zero":
					return 0, nil
				case "false":
					return false, nil
				}
				return []string{"x"}, nil
			}, controller.Cached(store)).
			Async("fail", func(*controller.Context) (any, error) {
				calls.Add(1)
				return nil, errors.New("nope")
			}, controller.Cached(store)))
		return e, &calls, &hooks
	}

	t.Run("async body runs at most once", func(t *testing.T) {
		t.Parallel()
		e, calls, hooks := newCached(t, cache.NewMemoryStore(0))

		first := e.get("/home/stats?q=x&b=1").Body.String()
		second := e.get("/home/stats?b=1&q=x").Body.String()

		assert.Equal(t, int32(1), calls.Load())
		assert.JSONEq(t, `{"success":true,"data":{"q":"x","n":1}}`, first)
		assert.JSONEq(t, first, second)
		assert.Equal(t, []string{"before", "after", "before", "after"}, *hooks)

		e.get("/home/stats?q=y")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("nocache always runs body", func(t *testing.T) {
		t.Parallel()
		e, calls, _ := newCached(t, cache.NewMemoryStore(0))

		e.get("/home/stats?q=x")
		rec := e.get("/home/stats?q=x&nocache=true")
		e.get("/home/stats?q=x&nocache=1")

		assert.Equal(t, int32(3), calls.Load())
		assert.JSONEq(t, `{"success":true,"data":{"q":"x","n":2}}`, rec.Body.String())

		e.get("/home/stats?q=x&nocache=false")
		assert.Equal(t, int32(3), calls.Load(), "nocache=false hits the entry cached without the flag")
	})

	t.Run("render output", func(t *testing.T) {
		t.Parallel()
		e, calls, _ := newCached(t, cache.NewMemoryStore(0))

		first := e.get("/home/page?q=a")
		second := e.get("/home/page?q=a")
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, "<p>a</p>", first.Body.String())
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, first.Header().Get("Content-Type"), second.Header().Get("Content-Type"))
	})

	t.Run("empty and failing output is not cached", func(t *testing.T) {
		t.Parallel()
		e, calls, _ := newCached(t, cache.NewMemoryStore(0))

		e.get("/home/empty")
		e.get("/home/empty")
		e.get("/home/fail")
		rec := e.get("/home/fail")

		assert.Equal(t, int32(4), calls.Load())
		assert.JSONEq(t, `{"success":false,"error":"nope"}`, rec.Body.String())
	})

	t.Run("typed empty output is not cached", func(t *testing.T) {
		t.Parallel()
		e, calls, _ := newCached(t, cache.NewMemoryStore(0))

		for _, kind := range []string{"map", "slice", "zero", "false"} {
			before := calls.Load()
			e.get("/home/typed?kind=" + kind)
			e.get("/home/typed?kind=" + kind)
			assert.Equal(t, before+2, calls.Load(), kind)
		}

		before := calls.Load()
		e.get("/home/typed?kind=full")
		e.get("/home/typed?kind=full")
		assert.Equal(t, before+1, calls.Load(), "non-empty slice is cached")
	})

	t.Run("store failure degrades to miss", func(t *testing.T) {
		t.Parallel()
		store := &countingStore{MemoryStore: cache.NewMemoryStore(0)}
		store.fail.Store(true)
		e, calls, _ := newCached(t, store)

		e.get("/home/stats?q=x")
		rec := e.get("/home/stats?q=x")
		assert.Equal(t, int32(2), calls.Load())
		assert.Contains(t, rec.Body.String(), `"success":true`)
	})
}

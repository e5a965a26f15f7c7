package main

import (
	"errors"
	"runtime"
	"time"

	"github.com/dmitrymomot/mvc/core/cache"
	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/response"
)

const themeKey = "theme"

// home is the root controller of the demo.
type home struct {
	users   *directory
	cache   cache.Store
	ttl     time.Duration
	started time.Time
}

func (h *home) controller() *controller.Controller {
	return controller.New("home", "",
		controller.WithAfterAction(h.audit),
	).
		Render(controller.DefaultAction, h.index, controller.WebPage()).
		Render("profile", h.profile, controller.Authenticated(), controller.WebPage()).
		Render("admin", h.admin, controller.AdminOnly(), controller.WebPage()).
		Async("stats", h.stats, controller.Cached(h.cache, controller.WithTTL(h.ttl))).
		Async("debug", h.debug, controller.DevOnly()).
		Async("login", h.login).
		Async("logout", h.logout).
		Async("theme", h.theme)
}

func (h *home) audit(c *controller.Context) error {
	c.Logger().DebugContext(c, "action finished",
		logger.Controller(c.Controller().Name()),
		logger.Action(c.Action()),
		logger.Elapsed(c.Started()),
	)
	return nil
}

func (h *home) index(c *controller.Context) (any, error) {
	u, _ := c.User()
	theme, _ := c.Cookie(themeKey)
	return c.RenderView("home/index", map[string]any{
		"User":  u,
		"Theme": theme,
	})
}

func (h *home) profile(c *controller.Context) (any, error) {
	u, _ := c.User()
	return c.RenderView("home/profile", map[string]any{
		"User":       u,
		"RememberMe": c.HasRememberMe(),
	})
}

func (h *home) admin(c *controller.Context) (any, error) {
	return c.RenderView("home/admin", map[string]any{
		"Uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// stats is deliberately slow so the cache is observable.
func (h *home) stats(c *controller.Context) (any, error) {
	window := c.Args().String("window")
	if window == "" {
		window = "day"
	}
	select {
	case <-time.After(200 * time.Millisecond):
	case <-c.Done():
		return nil, c.Err()
	}
	return map[string]any{
		"window":       window,
		"goroutines":   runtime.NumGoroutine(),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *home) debug(c *controller.Context) (any, error) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	out := map[string]any{
		"go":          runtime.Version(),
		"goroutines":  runtime.NumGoroutine(),
		"heap_alloc":  mem.HeapAlloc,
		"args":        c.RawArgs(),
		"remember_me": c.HasRememberMe(),
	}
	if sess, err := c.Session(); err == nil {
		out["session_id"] = sess.ID()
		out["session_keys"] = sess.Keys()
	}
	return out, nil
}

func (h *home) login(c *controller.Context) (any, error) {
	a := c.Args()
	u, err := h.users.authenticate(a.String("email"), a.String("password"))
	if err != nil {
		return nil, response.ErrUnauthorized.WithMessage(err.Error())
	}
	if err := c.Login(u); err != nil {
		return nil, err
	}

	if a.Bool("remember") {
		secret, err := h.users.issueRemember(u.ID)
		if err != nil {
			return nil, err
		}
		if err := c.SetRememberMe(u.ID, secret); err != nil {
			return nil, err
		}
	}
	return map[string]any{"id": u.ID, "name": u.Name, "admin": u.IsAdmin()}, nil
}

func (h *home) logout(c *controller.Context) (any, error) {
	if u, ok := c.User(); ok {
		h.users.forget(u.ID)
	}
	return nil, c.Logout()
}

// theme stores the preferred theme in the app cookie jar, or returns the
// current one when no value is given.
func (h *home) theme(c *controller.Context) (any, error) {
	a := c.Args()
	if !a.Has("value") {
		v, err := c.Cookie(themeKey)
		if err != nil && !errors.Is(err, controller.ErrNoAppCookie) {
			return "light", nil
		}
		return v, err
	}
	v := a.String("value")
	if v == "" {
		return c.RemoveCookie(themeKey)
	}
	return v, c.SetCookie(themeKey, v)
}

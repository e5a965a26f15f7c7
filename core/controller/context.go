package controller

import (
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/mvc/core/args"
	"github.com/dmitrymomot/mvc/core/handler"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/core/view"
)

// requestState is shared by a request context and every context forwarded
// from it.
type requestState struct {
	recovered  bool
	session    *session.Session
	sessionErr error
	started    bool
}

// Context is the per-call record handed to actions, hooks and decorators.
// It implements handler.Context.
type Context struct {
	handler.Context

	router     *Router
	controller *Controller
	action     *Action
	raw        args.Args
	args       args.Args
	start      time.Time
	state      *requestState
	logger     *slog.Logger
}

var _ handler.Context = (*Context)(nil)

// Action returns the action name.
func (c *Context) Action() string { return c.action.Name }

// Kind returns the action kind.
func (c *Context) Kind() Kind { return c.action.Kind }

// Controller returns the controller serving the call.
func (c *Context) Controller() *Controller { return c.controller }

// Router returns the router the controller is registered with.
func (c *Context) Router() *Router { return c.router }

// RawArgs returns the arguments as received.
func (c *Context) RawArgs() args.Args { return c.raw }

// Args returns the normalized arguments of actions, or the raw arguments of
// plain calls.
func (c *Context) Args() args.Args { return c.args }

// SetArgs replaces the arguments seen by the rest of the call.
func (c *Context) SetArgs(a args.Args) { c.args = a }

// Started returns when the call entered the pipeline.
func (c *Context) Started() time.Time { return c.start }

// Logger returns a logger tagged with the controller and action.
func (c *Context) Logger() *slog.Logger { return c.logger }

// IsDev reports whether the router runs in development mode.
func (c *Context) IsDev() bool { return c.router.dev }

// Session returns the client session, starting it on first use.
func (c *Context) Session() (*session.Session, error) {
	if c.router.sessions == nil {
		return nil, ErrNoSessions
	}
	if !c.state.started {
		c.state.session, c.state.sessionErr = c.router.sessions.Start(c)
		c.state.started = true
	}
	return c.state.session, c.state.sessionErr
}

// HasUser reports whether the session carries a user. Missing or failing
// sessions have no user.
func (c *Context) HasUser() bool {
	sess, err := c.Session()
	return err == nil && sess.HasUser()
}

// User returns the session user.
func (c *Context) User() (session.User, bool) {
	sess, err := c.Session()
	if err != nil {
		return session.User{}, false
	}
	return sess.User()
}

// Login attaches u to the session.
func (c *Context) Login(u session.User) error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	return sess.SetUser(c, u)
}

// Logout expires the session, drops its cookie and removes the remember-me
// cookie when configured.
func (c *Context) Logout() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if c.router.rememberMe != nil {
		c.router.rememberMe.Unset(c)
	}
	return c.router.sessions.Destroy(c, sess)
}

// Forward dispatches synchronously to another registered action, sharing
// this request's session and recovery state.
func (c *Context) Forward(path, action string, a args.Args) (any, error) {
	return c.router.Forward(c, path, action, a)
}

// RenderView renders a template. The session, controller name and action
// name are added to params as Session, Controller and Action unless set.
func (c *Context) RenderView(path string, params map[string]any) (string, error) {
	if c.router.renderer == nil {
		return "", view.ErrNotConfigured
	}
	return c.router.renderer.Render(c, path, c.viewData(params))
}

// viewData copies params and adds Session, Controller and Action.
func (c *Context) viewData(params map[string]any) map[string]any {
	data := make(map[string]any, len(params)+3)
	maps.Copy(data, params)
	if _, ok := data["Session"]; !ok && c.router.sessions != nil {
		if sess, err := c.Session(); err == nil {
			data["Session"] = sess
		}
	}
	if _, ok := data["Controller"]; !ok {
		data["Controller"] = c.controller.name
	}
	if _, ok := data["Action"]; !ok {
		data["Action"] = c.action.Name
	}
	return data
}

// Cookie returns a value from the application cookie.
func (c *Context) Cookie(key string) (string, error) {
	if c.router.jar == nil {
		return "", ErrNoAppCookie
	}
	return c.router.jar.Get(c.ResponseWriter(), c.Request(), key)
}

// SetCookie stores a value in the application cookie.
func (c *Context) SetCookie(key, value string) error {
	if c.router.jar == nil {
		return ErrNoAppCookie
	}
	return c.router.jar.Set(c.ResponseWriter(), c.Request(), key, value)
}

// RemoveCookie removes a value from the application cookie and returns it.
func (c *Context) RemoveCookie(key string) (string, error) {
	if c.router.jar == nil {
		return "", ErrNoAppCookie
	}
	return c.router.jar.Remove(c.ResponseWriter(), c.Request(), key)
}

// SetRememberMe enables session recovery for userID.
func (c *Context) SetRememberMe(userID int64, secret string) error {
	if c.router.rememberMe == nil {
		return ErrNoRememberMe
	}
	return c.router.rememberMe.Set(c, userID, secret)
}

// UnsetRememberMe disables session recovery.
func (c *Context) UnsetRememberMe() error {
	if c.router.rememberMe == nil {
		return ErrNoRememberMe
	}
	c.router.rememberMe.Unset(c)
	return nil
}

// HasRememberMe reports whether the client carries a remember-me cookie.
func (c *Context) HasRememberMe() bool {
	return c.router.rememberMe != nil && c.router.rememberMe.Has(c)
}

func (r *Router) newContext(base handler.Context, ctrl *Controller, action *Action, raw args.Args, state *requestState) *Context {
	if raw == nil {
		raw = args.Args{}
	}
	return &Context{
		Context:    base,
		router:     r,
		controller: ctrl,
		action:     action,
		raw:        raw,
		args:       raw,
		state:      state,
		logger: r.logger.With(
			logger.Controller(ctrl.name),
			logger.Action(action.Name),
		),
	}
}

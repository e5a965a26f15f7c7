package controller

import (
	"fmt"
	"strings"
)

// ActionFunc is the body of an action.
type ActionFunc func(c *Context) (any, error)

// Decorator wraps an action body.
type Decorator func(ActionFunc) ActionFunc

// Hook runs before or after an action body. A returned error aborts the call.
type Hook func(c *Context) error

// SessionRecoveryHandler restores a session user from a remember-me token.
type SessionRecoveryHandler interface {
	RecoverSession(c *Context, userID int64, secret string) error
}

// SessionRecoveryFunc adapts a function to SessionRecoveryHandler.
type SessionRecoveryFunc func(c *Context, userID int64, secret string) error

// RecoverSession implements SessionRecoveryHandler.
func (f SessionRecoveryFunc) RecoverSession(c *Context, userID int64, secret string) error {
	return f(c, userID, secret)
}

// Action is a registered, classified action.
type Action struct {
	Name    string
	Kind    Kind
	handler ActionFunc
}

// Controller groups actions under a path.
type Controller struct {
	name     string
	path     string
	actions  map[string]*Action
	order    []string
	before   Hook
	after    Hook
	recovery SessionRecoveryHandler
}

// Option configures a Controller.
type Option func(*Controller)

// WithBeforeAction sets the hook run before every action body.
func WithBeforeAction(h Hook) Option {
	return func(c *Controller) {
		c.before = h
	}
}

// WithAfterAction sets the hook run after every successful action body.
func WithAfterAction(h Hook) Option {
	return func(c *Controller) {
		c.after = h
	}
}

// WithSessionRecovery sets the handler receiving recovered remember-me
// identities, overriding the router default.
func WithSessionRecovery(h SessionRecoveryHandler) Option {
	return func(c *Controller) {
		c.recovery = h
	}
}

// New creates a controller. The path is mounted below the router root;
// an empty path is the root controller.
func New(name, path string, opts ...Option) *Controller {
	c := &Controller{
		name:    name,
		path:    normalizePath(path),
		actions: make(map[string]*Action),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the controller name.
func (c *Controller) Name() string { return c.name }

// Path returns the normalized controller path.
func (c *Controller) Path() string { return c.path }

// Action returns the action registered under name.
func (c *Controller) Action(name string) (Action, bool) {
	a, ok := c.actions[name]
	if !ok {
		return Action{}, false
	}
	return *a, true
}

// Actions returns the registered actions in registration order.
func (c *Controller) Actions() []Action {
	out := make([]Action, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.actions[name])
	}
	return out
}

// Render registers a view-producing action.
func (c *Controller) Render(name string, fn ActionFunc, decorators ...Decorator) *Controller {
	return c.register(name, KindRender, fn, decorators)
}

// Async registers an action answering with a JSON envelope.
func (c *Controller) Async(name string, fn ActionFunc, decorators ...Decorator) *Controller {
	return c.register(name, KindAsync, fn, decorators)
}

// Plain registers an action without argument normalization or hooks.
func (c *Controller) Plain(name string, fn ActionFunc, decorators ...Decorator) *Controller {
	return c.register(name, KindPlain, fn, decorators)
}

// register panics on invalid input: registration happens at startup and a
// bad table is a programming error.
func (c *Controller) register(name string, kind Kind, fn ActionFunc, decorators []Decorator) *Controller {
	switch {
	case name == "":
		panic(fmt.Sprintf("controller %s: empty action name", c.name))
	case strings.HasPrefix(name, "_"):
		panic(fmt.Sprintf("controller %s: action %q is internal and cannot be registered", c.name, name))
	case strings.Contains(name, "/"):
		panic(fmt.Sprintf("controller %s: action %q contains a slash", c.name, name))
	case fn == nil:
		panic(fmt.Sprintf("controller %s: action %q has no handler", c.name, name))
	}
	if _, exists := c.actions[name]; exists {
		panic(fmt.Sprintf("controller %s: action %q registered twice", c.name, name))
	}

	for i := len(decorators) - 1; i >= 0; i-- {
		fn = decorators[i](fn)
	}

	c.actions[name] = &Action{Name: name, Kind: kind, handler: fn}
	c.order = append(c.order, name)
	return c
}

func normalizePath(p string) string {
	return strings.Trim(p, "/")
}

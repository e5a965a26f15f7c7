package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/mvc/core/args"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/rememberme"
	"github.com/dmitrymomot/mvc/core/response"
)

// invoke runs one action call through the pipeline: session recovery,
// argument normalization, before hook, body, after hook, async envelope and
// timing.
func (r *Router) invoke(c *Context) (any, error) {
	r.recoverSession(c)

	kind := c.action.Kind
	c.start = time.Now()

	result, err := r.run(c)

	elapsed := time.Since(c.start)
	r.metrics.observe(c.controller.name, c.action.Name, kind, elapsed, err)

	switch kind {
	case KindRender:
		c.logger.DebugContext(c, "rendered view", logger.Type(kind.String()), logger.Duration(elapsed))
	case KindAsync:
		c.logger.DebugContext(c, "executed async call", logger.Type(kind.String()), logger.Duration(elapsed))
	}

	return result, err
}

func (r *Router) run(c *Context) (any, error) {
	kind := c.action.Kind
	if !kind.IsAction() {
		return c.action.handler(c)
	}

	normalized, err := args.Normalize(c.raw)
	if err != nil {
		return nil, response.ErrBadRequest.WithMessage(err.Error()).WithError(err)
	}
	c.args = normalized

	if hook := c.controller.before; hook != nil {
		if err := hook(c); err != nil {
			return nil, err
		}
	}

	var result any
	if kind == KindAsync {
		result, err = r.runAsync(c)
	} else {
		result, err = c.action.handler(c)
	}
	if err != nil {
		return nil, err
	}

	if hook := c.controller.after; hook != nil {
		if err := hook(c); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// runAsync wraps the body result into an Envelope. HTTP errors propagate;
// any other error or panic becomes a failed envelope.
func (r *Router) runAsync(c *Context) (Envelope, error) {
	data, err := callSafely(c.action.handler, c)
	if err != nil {
		var httpErr response.HTTPError
		if errors.As(err, &httpErr) {
			return Envelope{}, err
		}

		asyncErr := &AsyncActionError{Controller: c.controller.name, Action: c.action.Name, Err: err}
		c.logger.ErrorContext(c, "async action failed", logger.Error(asyncErr))
		return Failed(err), nil
	}

	env := Succeeded(data)
	if r.dev {
		if b, err := json.Marshal(env); err == nil {
			c.logger.DebugContext(c, "async response", logger.Key("envelope", string(b)))
		}
	}
	return env, nil
}

// callSafely runs fn, converting a panic into an error. A panic carrying an
// HTTPError is returned as that error.
func callSafely(fn ActionFunc, c *Context) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				var httpErr response.HTTPError
				if errors.As(e, &httpErr) {
					err = e
					return
				}
				err = fmt.Errorf("%w: %w", ErrPanic, e)
				return
			}
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return fn(c)
}

// recoverSession restores the session user from the remember-me cookie at
// most once per request. Failures are logged and never abort the call.
func (r *Router) recoverSession(c *Context) {
	if c.state.recovered {
		return
	}
	c.state.recovered = true

	if r.rememberMe == nil || r.sessions == nil {
		return
	}

	res, err := r.rememberMe.Recover(c, c)
	if err != nil {
		c.logger.WarnContext(c, "could not recover session", logger.Error(err))
		return
	}
	if res.Status != rememberme.Recovered {
		return
	}

	h := c.controller.recovery
	if h == nil {
		h = r.recovery
	}
	if h == nil {
		return
	}
	if err := h.RecoverSession(c, res.UserID, res.Secret); err != nil {
		c.logger.WarnContext(c, "could not recover session", logger.Error(err))
	}
}

package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/mvc/core/args"
	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/handler"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/rememberme"
	"github.com/dmitrymomot/mvc/core/response"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/core/view"
)

// DefaultAction is served when a request names a controller but no action.
const DefaultAction = "index"

// Router holds the registered controllers and the collaborators shared by
// every action call. Build it once at startup.
type Router struct {
	mu          sync.RWMutex
	controllers map[string]*Controller

	logger       *slog.Logger
	sessions     *session.Manager
	rememberMe   *rememberme.Manager
	renderer     view.Renderer
	jar          *cookie.Jar
	dev          bool
	metrics      *Metrics
	recovery     SessionRecoveryHandler
	errorHandler handler.ErrorHandler[*Context]
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSessions enables sessions.
func WithSessions(m *session.Manager) RouterOption {
	return func(r *Router) {
		r.sessions = m
	}
}

// WithRememberMe enables remember-me session recovery.
func WithRememberMe(m *rememberme.Manager) RouterOption {
	return func(r *Router) {
		r.rememberMe = m
	}
}

// WithRenderer sets the template renderer.
func WithRenderer(v view.Renderer) RouterOption {
	return func(r *Router) {
		r.renderer = v
	}
}

// WithAppCookie enables the application cookie helpers.
func WithAppCookie(j *cookie.Jar) RouterOption {
	return func(r *Router) {
		r.jar = j
	}
}

// WithDevMode enables development behavior: dev-only actions, page timing
// banners and envelope debug logs.
func WithDevMode(dev bool) RouterOption {
	return func(r *Router) {
		r.dev = dev
	}
}

// WithMetrics registers pipeline metrics with reg.
func WithMetrics(reg prometheus.Registerer) RouterOption {
	return func(r *Router) {
		if reg != nil {
			r.metrics = NewMetrics(reg)
		}
	}
}

// WithDefaultSessionRecovery sets the recovery handler of controllers that
// do not configure their own.
func WithDefaultSessionRecovery(h SessionRecoveryHandler) RouterOption {
	return func(r *Router) {
		r.recovery = h
	}
}

// WithErrorHandler replaces the error handler of render and plain actions.
// Async actions always answer errors with JSON.
func WithErrorHandler(h handler.ErrorHandler[*Context]) RouterOption {
	return func(r *Router) {
		if h != nil {
			r.errorHandler = h
		}
	}
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		controllers:  make(map[string]*Controller),
		logger:       logger.Discard(),
		errorHandler: response.ErrorHandler[*Context],
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a controller. Each path may be registered once.
func (r *Router) Register(c *Controller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controllers[c.path]; exists {
		return fmt.Errorf("%w: /%s", ErrDuplicatePath, c.path)
	}
	r.controllers[c.path] = c
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Router) MustRegister(controllers ...*Controller) {
	for _, c := range controllers {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Controller returns the controller registered at path.
func (r *Router) Controller(path string) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controllers[normalizePath(path)]
	return c, ok
}

// Forward dispatches synchronously to the action registered at path and
// returns its result. Async actions return their Envelope. A *Context
// parent shares its session and recovery state with the forwarded call.
func (r *Router) Forward(parent handler.Context, path, action string, a args.Args) (any, error) {
	ctrl, act, err := r.lookup(path, action)
	if err != nil {
		return nil, err
	}

	base, state := parent, &requestState{}
	if pc, ok := parent.(*Context); ok {
		base, state = pc.Context, pc.state
	}

	r.logger.DebugContext(parent, "forwarding",
		logger.Controller(ctrl.name),
		logger.Action(act.Name),
	)
	return r.invoke(r.newContext(base, ctrl, act, a.Clone(), state))
}

func (r *Router) lookup(path, action string) (*Controller, *Action, error) {
	ctrl, ok := r.Controller(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: /%s", ErrControllerNotFound, normalizePath(path))
	}
	if action == "" {
		action = DefaultAction
	}
	act, ok := ctrl.actions[action]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s.%s", ErrActionNotFound, ctrl.name, action)
	}
	return ctrl, act, nil
}

// resolve maps a URL path to a controller and action. A path naming a
// controller serves its index; otherwise the last segment is the action.
func (r *Router) resolve(urlPath string) (*Controller, *Action, error) {
	p := normalizePath(urlPath)
	if _, ok := r.Controller(p); ok {
		return r.lookup(p, DefaultAction)
	}

	ctrlPath, action := "", p
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		ctrlPath, action = p[:i], p[i+1:]
	}
	return r.lookup(ctrlPath, action)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	base := handler.NewContext(w, req)

	ctrl, act, err := r.resolve(req.URL.Path)
	if err != nil {
		r.logger.DebugContext(req.Context(), "no route",
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
			logger.Error(err),
		)
		response.ErrorHandler(base, response.ErrNotFound)
		return
	}

	if err := req.ParseForm(); err != nil {
		response.ErrorHandler(base, response.ErrBadRequest.WithError(err))
		return
	}

	c := r.newContext(base, ctrl, act, args.FromValues(req.Form), &requestState{})

	result, err := r.serve(c)
	if err != nil {
		r.handleError(c, err)
		return
	}

	if err := r.write(c, result); err != nil {
		r.handleError(c, err)
	}
}

// serve invokes the action, turning panics of render and plain actions into
// errors.
func (r *Router) serve(c *Context) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return r.invoke(c)
}

// write renders an action result according to the action kind.
func (r *Router) write(c *Context, result any) error {
	resp, err := r.toResponse(c, result)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return resp(c.ResponseWriter(), c.Request())
}

func (r *Router) toResponse(c *Context, result any) (handler.Response, error) {
	if c.action.Kind == KindAsync {
		return response.JSON(result), nil
	}

	switch v := result.(type) {
	case nil:
		if c.action.Kind == KindPlain {
			return response.NoContent(), nil
		}
		return response.HTML(""), nil
	case handler.Response:
		return v, nil
	case templ.Component:
		var buf bytes.Buffer
		if err := v.Render(c, &buf); err != nil {
			return nil, fmt.Errorf("render component: %w", err)
		}
		return response.HTML(buf.String()), nil
	case template.HTML:
		return response.HTML(string(v)), nil
	case json.RawMessage:
		return rawJSON(v), nil
	case string:
		if c.action.Kind == KindPlain {
			return response.String(v), nil
		}
		return response.HTML(v), nil
	case []byte:
		if c.action.Kind == KindPlain {
			return response.String(string(v)), nil
		}
		return response.HTML(string(v)), nil
	default:
		return response.JSON(v), nil
	}
}

func rawJSON(b json.RawMessage) handler.Response {
	return func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(b)
		return err
	}
}

// handleError maps err to a status and writes it. Lookup failures are 404,
// HTTP errors keep their status and anything else is a 500.
func (r *Router) handleError(c *Context, err error) {
	var httpErr response.HTTPError
	if !errors.As(err, &httpErr) && errors.Is(err, ErrNotFound) {
		err = response.ErrNotFound.WithError(err)
	}

	status := response.AsHTTPError(err).Status
	if status >= http.StatusInternalServerError {
		c.logger.ErrorContext(c, "action failed", logger.StatusCode(status), logger.Error(err))
	} else {
		c.logger.DebugContext(c, "action aborted", logger.StatusCode(status), logger.Error(err))
	}

	if c.action.Kind == KindAsync {
		response.JSONErrorHandler(c, err)
		return
	}
	r.errorHandler(c, err)
}

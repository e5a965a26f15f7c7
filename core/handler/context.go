package handler

import (
	"context"
	"net/http"
	"time"
)

// BaseContext is the default Context implementation.
// It delegates all context.Context methods to the request's context.
type BaseContext struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
}

var _ Context = (*BaseContext)(nil)

// NewContext wraps a response writer and request into a Context.
func NewContext(w http.ResponseWriter, r *http.Request) *BaseContext {
	return &BaseContext{w: w, r: r}
}

// Deadline delegates to the request context.
func (c *BaseContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request context.
func (c *BaseContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request context.
func (c *BaseContext) Err() error {
	return c.r.Context().Err()
}

// Value delegates to the request context.
func (c *BaseContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the current request.
func (c *BaseContext) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the response writer.
func (c *BaseContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the path parameter by key.
func (c *BaseContext) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetParam sets a path parameter value.
func (c *BaseContext) SetParam(key, value string) {
	if c.params == nil {
		c.params = make(map[string]string)
	}
	c.params[key] = value
}

// SetValue stores a value in the request context, visible through Value.
func (c *BaseContext) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

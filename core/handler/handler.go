package handler

import (
	"context"
	"net/http"
)

// Response renders an HTTP response: headers, status code and body.
// Rendering errors are handled by the caller's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// Context is the request context every action and middleware receives.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// ErrorHandler handles errors raised while serving a request.
type ErrorHandler[C Context] func(ctx C, err error)

package controller

import (
	"net/url"
	"strings"

	"github.com/dmitrymomot/mvc/core/handler"
	"github.com/dmitrymomot/mvc/core/response"
)

// URL builds "/<path>/?<query>" from a path and optional parameters.
// An empty path yields "/".
func URL(path string, params url.Values) string {
	p := strings.Trim(path, "/")
	u := "/"
	if p != "" {
		u += p + "/"
	}
	if qs := params.Encode(); qs != "" {
		u += "?" + qs
	}
	return u
}

// Redirect returns a 302 response to URL(path, params).
func Redirect(path string, params url.Values) handler.Response {
	return response.Redirect(URL(path, params))
}

// Abort builds the error that stops the current request with status and
// message. It propagates through every pipeline layer unchanged.
func Abort(status int, message string) response.HTTPError {
	return response.NewHTTPError(status, message)
}

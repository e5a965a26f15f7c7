// Package response builds handler.Response values for the common content
// types (text, HTML, JSON, templ components, redirects) and defines HTTPError,
// the typed abort that short-circuits request handling with a status code.
//
//	return response.JSON(map[string]any{"ok": true})
//
//	return response.Error(response.ErrForbidden.WithMessage("Authentication required"))
//
// ErrorHandler and JSONErrorHandler render any error: HTTPError values keep
// their status, errors implementing StatusCode() are mapped by status, and
// everything else becomes 500 Internal Server Error.
package response

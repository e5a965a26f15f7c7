// Package handler defines the small set of HTTP abstractions shared by the
// controller layer: the Response renderer and the request Context.
//
// A Response is a plain function, so any value that knows how to write itself
// to an http.ResponseWriter can be returned from an action:
//
//	func hello(w http.ResponseWriter, r *http.Request) error {
//		_, err := io.WriteString(w, "hello")
//		return err
//	}
//
// Context embeds context.Context and exposes the underlying request, the
// response writer, route params and request-scoped values.
package handler

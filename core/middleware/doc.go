// Package middleware provides net/http middleware placed in front of the
// controller router: request ids and access logging.
//
//	var h http.Handler = router
//	h = middleware.Logging(middleware.LoggingConfig{Logger: log})(h)
//	h = middleware.RequestID(middleware.RequestIDConfig{UseExisting: true})(h)
//
// RequestID must wrap Logging so the access log carries the id.
package middleware

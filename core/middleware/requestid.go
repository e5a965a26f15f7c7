package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// DefaultRequestIDHeader carries the request id in both directions.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

// RequestIDConfig configures RequestID.
type RequestIDConfig struct {
	// Generator creates new ids (default: UUID v4).
	Generator func() string
	// HeaderName defaults to DefaultRequestIDHeader.
	HeaderName string
	// UseExisting keeps an id supplied by the client.
	UseExisting bool
}

// RequestID assigns every request an id, stores it in the request context and
// echoes it in the response header.
func RequestID(cfg RequestIDConfig) func(http.Handler) http.Handler {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.UseExisting {
				id = r.Header.Get(cfg.HeaderName)
			}
			if id == "" {
				id = cfg.Generator()
			}

			w.Header().Set(cfg.HeaderName, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// GetRequestID returns the request id stored by RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok && id != ""
}

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/mvc/core/logger"
)

// LoggingConfig configures Logging.
type LoggingConfig struct {
	// Skip bypasses logging for matching requests, e.g. health probes.
	Skip func(r *http.Request) bool
	// Logger defaults to a discard logger.
	Logger *slog.Logger
	// LogLevel for successful requests (default: info).
	LogLevel slog.Level
	// SlowRequestThreshold logs slower requests at warning level (default: 5s).
	SlowRequestThreshold time.Duration
}

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logging writes one structured access log record per request. 5xx
// responses are logged as errors, 4xx and slow requests as warnings.
func Logging(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			attrs := []slog.Attr{
				logger.Component("http"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(status),
				logger.Duration(elapsed),
				slog.Int("size", rec.size),
			}
			if id, ok := GetRequestID(r.Context()); ok {
				attrs = append(attrs, slog.String("request_id", id))
			}

			level := cfg.LogLevel
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest, elapsed >= cfg.SlowRequestThreshold:
				level = slog.LevelWarn
			}
			cfg.Logger.LogAttrs(r.Context(), level, "request completed", attrs...)
		})
	}
}

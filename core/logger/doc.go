// Package logger builds slog loggers and provides nil-safe attribute helpers.
//
//	log := logger.New(logger.WithDevelopment("myapp"))
//	log.Debug("rendered view",
//		logger.Controller("home"),
//		logger.Action("index"),
//		logger.Duration(time.Since(start)),
//	)
//
// Helpers such as Error and Key return an empty slog.Attr for nil input, and
// slog skips empty attributes, so they can be passed unconditionally.
package logger

package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/response"
)

// Readiness runs every check in order and answers "READY", or 503 on the
// first failure.
func Readiness(log *slog.Logger, checks ...func(context.Context) error) controller.ActionFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(c *controller.Context) (any, error) {
		for _, check := range checks {
			if err := check(c); err != nil {
				log.ErrorContext(c, "readiness check failed", logger.Component("health"), logger.Error(err))
				return nil, response.ErrServiceUnavailable.WithError(err)
			}
		}
		return response.String("READY"), nil
	}
}

// New returns a controller mounted at path with plain "live", "ready" and
// "ping" actions. Its index action is the readiness probe.
func New(path string, log *slog.Logger, checks ...func(context.Context) error) *controller.Controller {
	ready := Readiness(log, checks...)
	return controller.New("health", path).
		Plain(controller.DefaultAction, ready).
		Plain("live", Liveness).
		Plain("ready", ready).
		Plain("ping", NoContent)
}

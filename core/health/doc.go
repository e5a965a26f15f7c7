// Package health provides liveness and readiness probes as plain controller
// actions.
//
//	router.MustRegister(health.New("healthz", log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	))
//
// This serves /healthz and /healthz/ready (dependency checks, 503 on failure),
// /healthz/live ("ALIVE") and /healthz/ping (204). Checks follow the
// func(context.Context) error signature.
package health

package main

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mvc/core/config"
	"github.com/dmitrymomot/mvc/core/controller"
	"github.com/dmitrymomot/mvc/core/cookie"
	"github.com/dmitrymomot/mvc/core/health"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/middleware"
	"github.com/dmitrymomot/mvc/core/rememberme"
	"github.com/dmitrymomot/mvc/core/server"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/core/view"
)

//go:embed templates
var templateFS embed.FS

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newLogger(cfg Config) *slog.Logger {
	if cfg.dev() {
		return logger.New(logger.WithDevelopment(cfg.AppName))
	}
	return logger.New(logger.WithProduction(cfg.AppName))
}

func serve(ctx context.Context, cfg Config) error {
	log := newLogger(cfg)

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.backends.close()

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, app.handler))
	for _, w := range app.backends.workers {
		g.Go(func() error { return w(ctx) })
	}
	return g.Wait()
}

// application is the fully wired HTTP stack.
type application struct {
	handler  http.Handler
	router   *controller.Router
	backends *backends
}

func build(ctx context.Context, cfg Config, log *slog.Logger) (*application, error) {
	if cfg.Cookie.Secrets == "" {
		if !cfg.dev() {
			return nil, cookie.ErrNoSecret
		}
		cfg.Cookie.Secrets = randomSecret()
		log.WarnContext(ctx, "COOKIE_SECRETS not set, using an ephemeral secret")
	}
	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, err
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	cost := bcrypt.DefaultCost
	if cfg.dev() {
		cost = bcrypt.MinCost
	}
	users, err := seedDirectory(cost)
	if err != nil {
		b.close()
		return nil, err
	}

	templates, err := templateSource(cfg.View)
	if err != nil {
		b.close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := controller.NewRouter(
		controller.WithLogger(log),
		controller.WithDevMode(cfg.dev()),
		controller.WithSessions(session.NewManagerFromConfig(cfg.Session, b.sessions, cookies, log)),
		controller.WithRememberMe(rememberme.NewFromConfig(cfg.RememberMe, cookies, log)),
		controller.WithRenderer(templates),
		controller.WithAppCookie(cookie.NewJar(cookies, cfg.Cookie.AppCookie)),
		controller.WithMetrics(reg),
		controller.WithDefaultSessionRecovery(users),
	)

	homeCtrl := &home{users: users, cache: b.cache, ttl: cfg.CacheTTL, started: time.Now()}
	router.MustRegister(
		homeCtrl.controller(),
		health.New("healthz", log, b.checks...),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/", router)

	var h http.Handler = mux
	h = middleware.Logging(middleware.LoggingConfig{
		Logger: log,
		Skip: func(r *http.Request) bool {
			return r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, "/healthz")
		},
	})(h)
	h = middleware.RequestID(middleware.RequestIDConfig{UseExisting: true})(h)

	return &application{handler: h, router: router, backends: b}, nil
}

// templateSource serves templates from TEMPLATES_DIR when set and from the
// embedded copy otherwise.
func templateSource(cfg view.Config) (*view.Engine, error) {
	if cfg.Dir != "" {
		return view.NewFromConfig(cfg), nil
	}
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, errors.Join(view.ErrNotConfigured, err)
	}
	return view.New(sub, view.WithExtension(cfg.Extension)), nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

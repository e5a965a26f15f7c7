package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/mvc/core/cache"
	"github.com/dmitrymomot/mvc/core/config"
	"github.com/dmitrymomot/mvc/core/logger"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/integration/database/pg"
	"github.com/dmitrymomot/mvc/integration/database/redis"
)

// backends holds the storage chosen from the configuration.
type backends struct {
	sessions session.Store
	cache    cache.Store
	checks   []func(context.Context) error
	// workers run until ctx is done; they are started by the serve command.
	workers []func(ctx context.Context) error
	closers []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends picks Postgres for sessions when PG_CONN_URL is set, Redis for
// sessions and cache when REDIS_URL is set, and memory for anything left.
func openBackends(ctx context.Context, cfg Config, log *slog.Logger) (*backends, error) {
	b := &backends{}

	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, err
		}
		rdb = client
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.checks = append(b.checks, redis.Healthcheck(client))
		b.sessions = redis.NewSessionStore(client, rcfg.SessionPrefix)
		b.cache = redis.NewCacheStore(client, rcfg.CachePrefix)
		log.InfoContext(ctx, "using redis", logger.Component("storage"))
	}

	if cfg.PGURL != "" {
		pool, err := openPostgres(ctx, log)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.checks = append(b.checks, pg.Healthcheck(pool))

		store := pg.NewSessionStore(pool)
		b.sessions = store
		b.workers = append(b.workers, sweep(cfg.Session.CleanupInterval, log, func(ctx context.Context) (int64, error) {
			return store.Cleanup(ctx)
		}))
		log.InfoContext(ctx, "using postgres sessions", logger.Component("storage"))
	}

	if b.sessions == nil {
		store := session.NewMemoryStore(
			session.WithCleanupInterval(cfg.Session.CleanupInterval),
			session.WithStoreLogger(log),
		)
		b.sessions = store
		b.workers = append(b.workers, func(ctx context.Context) error {
			store.StartCleanup(ctx)
			<-ctx.Done()
			store.Stop()
			return nil
		})
	}
	if rdb == nil {
		b.cache = cache.NewMemoryStore(cache.DefaultCapacity)
	}
	return b, nil
}

func openPostgres(ctx context.Context, log *slog.Logger) (*pgxpool.Pool, error) {
	var pcfg pg.Config
	if err := config.Load(&pcfg); err != nil {
		return nil, err
	}
	pool, err := pg.Connect(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, pool, pcfg, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// sweep periodically runs fn until ctx is done.
func sweep(interval time.Duration, log *slog.Logger, fn func(context.Context) (int64, error)) func(context.Context) error {
	if interval <= 0 {
		interval = time.Minute
	}
	return func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := fn(ctx)
				if err != nil {
					log.WarnContext(ctx, "session sweep failed", logger.Component("storage"), logger.Error(err))
					continue
				}
				if n > 0 {
					log.DebugContext(ctx, "removed expired sessions", logger.Component("storage"), slog.Int64("count", n))
				}
			}
		}
	}
}

// Package redis connects to Redis and provides Redis-backed session and
// cache stores.
//
// Connect validates the URL (redis:// or rediss://), opens a go-redis client
// and pings it with exponential backoff until it answers, the attempts run out
// or ConnectTimeout elapses:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  5 * time.Second,
//		ConnectTimeout: 30 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// # Stores
//
// SessionStore implements session.Store. Each session is one JSON string
// under "<prefix><id>" with the session TTL as the Redis expiry, so expired
// sessions disappear without a sweeper:
//
//	sessions := session.NewManager(redis.NewSessionStore(client, cfg.SessionPrefix), cookies)
//
// CacheStore implements cache.Store for memoized controller actions:
//
//	home.Async("stats", stats, controller.Cached(redis.NewCacheStore(client, cfg.CachePrefix)))
//
// # Health Checking
//
// Healthcheck returns a probe for readiness endpoints:
//
//	check := redis.Healthcheck(client)
//	if err := check(r.Context()); err != nil {
//		http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
//	}
//
// # Errors
//
//   - ErrEmptyConnectionURL: no connection URL configured
//   - ErrFailedToParseRedisConnString: the URL is malformed or uses another scheme
//   - ErrRedisNotReady: the server did not answer within the retry budget
//   - ErrHealthcheckFailed: a probe ping failed
//   - ErrCorruptedEntry: a stored session is not valid JSON
package redis

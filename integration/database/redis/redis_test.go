package redis_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/cache"
	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/integration/database/redis"
)

// connect returns a live client or skips when REDIS_URL is not set.
func connect(t *testing.T) *goredis.Client {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "empty", url: "", want: redis.ErrEmptyConnectionURL},
		{name: "wrong scheme", url: "http://localhost:6379", want: redis.ErrFailedToParseRedisConnString},
		{name: "bad db", url: "redis://localhost:6379/abc", want: redis.ErrFailedToParseRedisConnString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: tt.url})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 2 * time.Second,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()
	client := connect(t)
	assert.NoError(t, redis.Healthcheck(client)(context.Background()))
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	client := connect(t)
	store := redis.NewSessionStore(client, "test-session:")
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { _ = store.Delete(ctx, id) })

	_, err := store.Load(ctx, id)
	require.ErrorIs(t, err, session.ErrNotFound)

	values := session.Values{"name": json.RawMessage(`"Ann"`)}
	require.NoError(t, store.Save(ctx, id, values, time.Minute))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `"Ann"`, string(got["name"]))

	ttl, err := client.TTL(ctx, "test-session:"+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.NoError(t, store.Delete(ctx, id))
}

func TestSessionStore_WithManager(t *testing.T) {
	t.Parallel()

	client := connect(t)
	store := redis.NewSessionStore(client, "test-session:")
	ctx := context.Background()

	sess := session.New(uuid.NewString(), store, nil, time.Minute)
	t.Cleanup(func() { _ = store.Delete(ctx, sess.ID()) })

	require.NoError(t, sess.SetUser(ctx, session.User{ID: 7, Name: "Bob"}))

	values, err := store.Load(ctx, sess.ID())
	require.NoError(t, err)
	restored := session.New(sess.ID(), store, values, time.Minute)
	u, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, int64(7), u.ID)
}

func TestCacheStore(t *testing.T) {
	t.Parallel()

	client := connect(t)
	var store cache.Store = redis.NewCacheStore(client, "test-cache:")
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, "test-cache:"+key) })

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, key, []byte("payload"), time.Minute))
	b, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(b))
}

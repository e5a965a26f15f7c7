package pg_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mvc/core/session"
	"github.com/dmitrymomot/mvc/integration/database/pg"
)

// connect returns a migrated pool or skips when PG_TEST_URL is not set.
func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: url,
		RetryAttempts:    1,
		MigrationsTable:  "schema_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, cfg, nil))
	return pool
}

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://:bad"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("load: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(assert.AnError))

	assert.True(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, pg.IsForeignKeyViolationError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, pg.IsTxClosedError(pgx.ErrTxClosed))
}

func TestTxContext(t *testing.T) {
	t.Parallel()

	ctx := pg.WithTx(context.Background(), nil)
	_, ok := pg.TxFromContext(ctx)
	assert.False(t, ok)
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	pool := connect(t)
	store := pg.NewSessionStore(pool)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { _ = store.Delete(ctx, id) })

	_, err := store.Load(ctx, id)
	require.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Save(ctx, id, session.Values{"n": json.RawMessage(`1`)}, time.Minute))
	require.NoError(t, store.Save(ctx, id, session.Values{"n": json.RawMessage(`2`)}, time.Minute))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `2`, string(got["n"]))

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_Expired(t *testing.T) {
	t.Parallel()

	pool := connect(t)
	store := pg.NewSessionStore(pool)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { _ = store.Delete(ctx, id) })

	require.NoError(t, store.Save(ctx, id, session.Values{}, time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Load(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	n, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

func TestSessionStore_Transaction(t *testing.T) {
	t.Parallel()

	pool := connect(t)
	store := pg.NewSessionStore(pool)
	ctx := context.Background()
	id := uuid.NewString()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	txCtx := pg.WithTx(ctx, tx)

	require.NoError(t, store.Save(txCtx, id, session.Values{}, time.Minute))
	_, err = store.Load(txCtx, id)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()
	pool := connect(t)
	assert.NoError(t, pg.Healthcheck(pool)(context.Background()))
}

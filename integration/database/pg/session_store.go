package pg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mvc/core/session"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionStore persists sessions in the sessions table created by Migrate.
// Operations join a transaction carried by the context (see WithTx).
type SessionStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewSessionStore creates a Postgres-backed session store.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool, now: time.Now}
}

func (s *SessionStore) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// Load implements session.Store.
func (s *SessionStore) Load(ctx context.Context, id string) (session.Values, error) {
	const q = `SELECT data FROM sessions WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`

	var raw []byte
	if err := s.db(ctx).QueryRow(ctx, q, id, s.now()).Scan(&raw); err != nil {
		if IsNotFoundError(err) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	values := session.Values{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Save implements session.Store.
func (s *SessionStore) Save(ctx context.Context, id string, values session.Values, ttl time.Duration) error {
	const q = `INSERT INTO sessions (id, data, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`

	if values == nil {
		values = session.Values{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := s.now().Add(ttl)
		expiresAt = &t
	}

	_, err = s.db(ctx).Exec(ctx, q, id, data, expiresAt)
	return err
}

// Delete implements session.Store.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.db(ctx).Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// Cleanup removes expired sessions and returns how many were deleted.
func (s *SessionStore) Cleanup(ctx context.Context) (int64, error) {
	tag, err := s.db(ctx).Exec(ctx, `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

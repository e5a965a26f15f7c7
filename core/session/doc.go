// Package session provides client-scoped key/value sessions.
//
// A Session holds JSON-encoded values keyed by string and writes every
// mutation through to a Store before returning. Manager ties sessions to
// clients with a signed id cookie and saves an empty session the first time
// a client is seen:
//
//	store := session.NewMemoryStore()
//	store.StartCleanup(ctx)
//	defer store.Stop()
//
//	sessions := session.NewManager(store, cookies, session.WithTTL(12*time.Hour))
//	sess, err := sessions.Start(c)
//	if err != nil {
//		return err
//	}
//	_ = sess.Put(c, "cart", cart)
//
// The authenticated user is kept under a reserved key and accessed through
// SetUser, User, HasUser, RemoveUser and RequireUser.
//
// Redis and PostgreSQL stores live in integration/database/redis and
// integration/database/pg.
package session

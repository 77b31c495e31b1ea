package sqlite

import (
	"context"
	"database/sql"

	"github.com/sentrang/enroll/internal/enroll/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions. The connection is already established
// when the transaction is created, so we just return nil.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                           { return &usersRepo{q: t.tx} }
func (t *txStore) Credentials() store.Credentials               { return &credentialsRepo{q: t.tx} }
func (t *txStore) Sessions() store.Sessions                     { return &sessionsRepo{q: t.tx} }
func (t *txStore) Invitations() store.Invitations               { return &invitationsRepo{q: t.tx} }
func (t *txStore) Submissions() store.Submissions               { return &submissionsRepo{q: t.tx} }
func (t *txStore) Students() store.Students                     { return &studentsRepo{q: t.tx} }
func (t *txStore) ParentStudentLinks() store.ParentStudentLinks { return &linksRepo{q: t.tx} }
func (t *txStore) LeaderProfiles() store.LeaderProfiles         { return &leaderProfilesRepo{q: t.tx} }
func (t *txStore) Notifications() store.Notifications           { return &notificationsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations should be applied before starting a tx

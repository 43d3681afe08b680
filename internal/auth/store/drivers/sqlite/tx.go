package sqlite

import (
	"context"
	"database/sql"

	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
)

type txStore struct {
	tx *sql.Tx
	q  *gen.Queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		tx: tx,
		q:  gen.New(tx),
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the owner of the Tx commits or rolls back.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Accounts() store.Accounts         { return &accountsRepo{q: t.q} }
func (t *txStore) OTPCodes() store.OTPCodes         { return &otpCodesRepo{q: t.q} }
func (t *txStore) AccessTokens() store.AccessTokens { return &accessTokensRepo{q: t.q} }
func (t *txStore) RateLimits() store.RateLimits     { return &rateLimitsRepo{q: t.q} }
func (t *txStore) Geography() store.Geography       { return &geographyRepo{q: t.q} }

// ApplyMigrations is a no-op; migrations run on the Store before any Tx.
func (t *txStore) ApplyMigrations() error { return nil }

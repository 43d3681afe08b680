package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. SQLite has a single writer, so the pool
// is capped at one connection: transactions queue instead of failing with
// SQLITE_BUSY, and ":memory:" databases stay a single database. Code running
// inside WithTx must only use the Tx it was given.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts         { return &accountsRepo{q: s.q} }
func (s *Store) OTPCodes() store.OTPCodes         { return &otpCodesRepo{q: s.q} }
func (s *Store) AccessTokens() store.AccessTokens { return &accessTokensRepo{q: s.q} }
func (s *Store) RateLimits() store.RateLimits     { return &rateLimitsRepo{q: s.q} }
func (s *Store) Geography() store.Geography       { return &geographyRepo{q: s.q} }

// ts normalises times before they reach SQLite. Timestamps are stored as
// text, so a fixed UTC second precision keeps lexical and temporal order equal.
func ts(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns unique and primary key violations into ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

// rowsOrNotFound maps "zero rows affected" to ErrNotFound.
func rowsOrNotFound(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullInt64Ptr(n sql.NullInt64) *int64 {
	if n.Valid {
		val := n.Int64
		return &val
	}
	return nil
}

func mapOptionalInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: ts(*t), Valid: true}
}

func encodeStrings[T ~string](vs []T) string {
	if vs == nil {
		vs = []T{}
	}
	b, _ := json.Marshal(vs)
	return string(b)
}

func decodeStrings[T ~string](raw string) []T {
	var out []T
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func mapAccount(row gen.Account) domain.Account {
	var role *domain.Role
	if row.AdminRole.Valid {
		r := domain.Role(row.AdminRole.String)
		role = &r
	}

	return domain.Account{
		ID:              row.ID,
		PhoneNumber:     row.PhoneNumber,
		Name:            row.Name,
		Email:           mapNullStringPtr(row.Email),
		WardID:          mapNullInt64Ptr(row.WardID),
		IsAdmin:         row.IsAdmin,
		AdminRole:       role,
		Permissions:     decodeStrings[domain.Permission](row.Permissions),
		IsSuspended:     row.IsSuspended,
		SuspendedUntil:  mapNullTimePtr(row.SuspendedUntil),
		PasswordHash:    mapNullString(row.PasswordHash),
		MFASecret:       mapNullStringPtr(row.MfaSecret),
		MFAEnabledAt:    mapNullTimePtr(row.MfaEnabledAt),
		PhoneVerifiedAt: mapNullTimePtr(row.PhoneVerifiedAt),
		LastLoginAt:     mapNullTimePtr(row.LastLoginAt),
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
}

func mapOTPCode(row gen.OtpCode) domain.OTPCode {
	return domain.OTPCode{
		ID:          row.ID,
		PhoneNumber: row.PhoneNumber,
		Code:        row.Code,
		ExpiresAt:   row.ExpiresAt.UTC(),
		Verified:    row.Verified,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func mapAccessToken(row gen.AccessToken) domain.AccessToken {
	return domain.AccessToken{
		ID:         row.ID,
		AccountID:  row.AccountID,
		Name:       row.Name,
		Abilities:  decodeStrings[string](row.Abilities),
		ExpiresAt:  row.ExpiresAt.UTC(),
		LastUsedAt: mapNullTimePtr(row.LastUsedAt),
		CreatedAt:  row.CreatedAt.UTC(),
	}
}

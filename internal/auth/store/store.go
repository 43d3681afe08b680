package store

import (
	"context"
	"errors"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose the sub-repositories as methods so a Tx can hand out the same repos
// bound to the transaction, and so nobody opens a transaction inside one.
type Store interface {
	Accounts() Accounts
	OTPCodes() OTPCodes
	AccessTokens() AccessTokens
	RateLimits() RateLimits
	Geography() Geography

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Only the Tx passed to fn may be used inside fn.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	AdminsOnly bool
	Role       *domain.Role
	Limit      int
	Offset     int
}

type Accounts interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByPhone(ctx context.Context, phone string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// UpsertVerifiedPhone returns the account for phone, creating it with
	// name on first sight, and stamps phone_verified_at. It is a single
	// statement so two concurrent verifications can't create duplicates.
	UpsertVerifiedPhone(ctx context.Context, id, phone, name string, now time.Time) (domain.Account, error)

	// CreateAccount inserts a fully formed account (admins, bootstrap).
	// A duplicate phone or email yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccount writes every mutable column of a.
	UpdateAccount(ctx context.Context, a domain.Account) error

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	ClearSuspension(ctx context.Context, id string, now time.Time) error
	DeleteAccount(ctx context.Context, id string) error

	ListAccounts(ctx context.Context, f AccountFilter) ([]domain.Account, error)
	CountSuperAdmins(ctx context.Context) (int, error)
}

type OTPCodes interface {
	// GetActiveOTP returns the unconsumed, unexpired code for phone.
	GetActiveOTP(ctx context.Context, phone string, now time.Time) (domain.OTPCode, error)

	// FindActiveOTP returns the newest unconsumed, unexpired record matching
	// phone and code.
	FindActiveOTP(ctx context.Context, phone, code string, now time.Time) (domain.OTPCode, error)

	// CreateOTP inserts a code. A second pending code for the same phone
	// yields ErrAlreadyExists.
	CreateOTP(ctx context.Context, o domain.OTPCode) error

	// ConsumeOTP marks id verified if it still is not; ErrNotFound when
	// another caller got there first.
	ConsumeOTP(ctx context.Context, id string, now time.Time) error

	DeleteOTPsForPhone(ctx context.Context, phone string) error

	// DeleteStaleOTPs removes verified and expired codes (housekeeping).
	DeleteStaleOTPs(ctx context.Context, now time.Time) (int64, error)
}

type AccessTokens interface {
	CreateAccessToken(ctx context.Context, t domain.AccessToken) error
	GetAccessToken(ctx context.Context, id string) (domain.AccessToken, error)
	TouchAccessToken(ctx context.Context, id string, at time.Time) error
	DeleteAccessToken(ctx context.Context, id string) error
	DeleteAccountTokens(ctx context.Context, accountID string) error
	DeleteAccountTokensExcept(ctx context.Context, accountID, keepID string) error
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error)
}

type RateLimits interface {
	// HitRateLimit atomically opens or increments the window for key and
	// returns the count and the window end.
	HitRateLimit(ctx context.Context, key string, resetAt, now time.Time) (int, time.Time, error)

	// GetRateLimit returns the live window for key; ErrNotFound when none.
	GetRateLimit(ctx context.Context, key string, now time.Time) (int, time.Time, error)

	DeleteRateLimit(ctx context.Context, key string) error
	DeleteExpiredRateLimits(ctx context.Context, now time.Time) (int64, error)
}

type Geography interface {
	ListCounties(ctx context.Context) ([]domain.County, error)
	ListConstituencies(ctx context.Context, countyID int64) ([]domain.Constituency, error)
	ListWards(ctx context.Context, constituencyID int64) ([]domain.Ward, error)
	GetCounty(ctx context.Context, id int64) (domain.County, error)
	GetConstituency(ctx context.Context, id int64) (domain.Constituency, error)

	// GetWardLocation returns the ward with its constituency and county.
	GetWardLocation(ctx context.Context, wardID int64) (domain.WardLocation, error)
}

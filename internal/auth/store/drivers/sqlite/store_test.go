package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestUpsertVerifiedPhoneIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	first, err := s.Accounts().UpsertVerifiedPhone(ctx, idx.New().String(), "254712345678", domain.PlaceholderName, now)
	require.NoError(t, err)
	require.Equal(t, domain.PlaceholderName, first.Name)
	require.NotNil(t, first.PhoneVerifiedAt)

	second, err := s.Accounts().UpsertVerifiedPhone(ctx, idx.New().String(), "254712345678", domain.PlaceholderName, now.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.PhoneVerifiedAt.After(*first.PhoneVerifiedAt))
}

func TestConcurrentUpsertVerifiedPhoneCreatesOneAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()
	const goroutines = 20

	var wg sync.WaitGroup
	ids := make([]string, goroutines)
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.Accounts().UpsertVerifiedPhone(ctx, idx.New().String(), "254712345678", domain.PlaceholderName, now)
			ids[i], errs[i] = a.ID, err
		}()
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i], "every caller should get the same account")
	}

	accounts, err := s.Accounts().ListAccounts(ctx, store.AccountFilter{})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}

func TestAccountRoundTripsPermissionsAndRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	email := "admin@sauti.example"
	role := domain.RoleSuperAdmin
	acct := domain.Account{
		ID:           idx.New().String(),
		PhoneNumber:  "254700000001",
		Name:         "Root",
		Email:        &email,
		IsAdmin:      true,
		AdminRole:    &role,
		Permissions:  role.DefaultPermissions(),
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Accounts().CreateAccount(ctx, acct))

	err := s.Accounts().CreateAccount(ctx, acct)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Accounts().GetAccountByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, acct.ID, got.ID)
	require.Equal(t, role, *got.AdminRole)
	require.ElementsMatch(t, role.DefaultPermissions(), got.Permissions)

	n, err := s.Accounts().CountSuperAdmins(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	admins, err := s.Accounts().ListAccounts(ctx, store.AccountFilter{AdminsOnly: true})
	require.NoError(t, err)
	require.Len(t, admins, 1)

	_, err = s.Accounts().GetAccountByPhone(ctx, "254799999999")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOTPLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	otp := domain.OTPCode{
		ID:          idx.New().String(),
		PhoneNumber: "254712345678",
		Code:        "123456",
		ExpiresAt:   now.Add(10 * time.Minute),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.OTPCodes().CreateOTP(ctx, otp))

	dup := otp
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.OTPCodes().CreateOTP(ctx, dup), store.ErrAlreadyExists)

	active, err := s.OTPCodes().GetActiveOTP(ctx, otp.PhoneNumber, now)
	require.NoError(t, err)
	require.Equal(t, otp.ID, active.ID)

	_, err = s.OTPCodes().FindActiveOTP(ctx, otp.PhoneNumber, "000000", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	found, err := s.OTPCodes().FindActiveOTP(ctx, otp.PhoneNumber, "123456", now)
	require.NoError(t, err)

	require.NoError(t, s.OTPCodes().ConsumeOTP(ctx, found.ID, now))
	require.ErrorIs(t, s.OTPCodes().ConsumeOTP(ctx, found.ID, now), store.ErrNotFound)

	_, err = s.OTPCodes().GetActiveOTP(ctx, otp.PhoneNumber, now)
	require.ErrorIs(t, err, store.ErrNotFound)

	// A consumed code no longer blocks a new pending one.
	require.NoError(t, s.OTPCodes().CreateOTP(ctx, dup))

	removed, err := s.OTPCodes().DeleteStaleOTPs(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)
}

func TestExpiredOTPIsNotActive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.OTPCodes().CreateOTP(ctx, domain.OTPCode{
		ID:          idx.New().String(),
		PhoneNumber: "254712345678",
		Code:        "654321",
		ExpiresAt:   now.Add(-time.Second),
		CreatedAt:   now.Add(-10 * time.Minute),
		UpdatedAt:   now.Add(-10 * time.Minute),
	}))

	_, err := s.OTPCodes().FindActiveOTP(ctx, "254712345678", "654321", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRateLimitWindow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Unix(1_700_000_000, 0)
	reset := now.Add(time.Minute)

	for i := 1; i <= 3; i++ {
		n, at, err := s.RateLimits().HitRateLimit(ctx, "login:254712345678", reset, now)
		require.NoError(t, err)
		require.Equal(t, i, n)
		require.True(t, at.Equal(reset))
	}

	n, _, err := s.RateLimits().GetRateLimit(ctx, "login:254712345678", now)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// Once the window has passed the counter restarts with a fresh reset time.
	later := reset.Add(time.Second)
	n, at, err := s.RateLimits().HitRateLimit(ctx, "login:254712345678", later.Add(time.Minute), later)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, at.Equal(later.Add(time.Minute)))

	_, _, err = s.RateLimits().GetRateLimit(ctx, "login:254712345678", later.Add(2*time.Minute))
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.RateLimits().DeleteRateLimit(ctx, "login:254712345678"))
	_, _, err = s.RateLimits().GetRateLimit(ctx, "login:254712345678", later)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConcurrentRateLimitHitsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Unix(1_700_000_000, 0)
	reset := now.Add(time.Minute)
	const goroutines = 50

	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = s.RateLimits().HitRateLimit(ctx, "login:254712345678", reset, now)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	n, _, err := s.RateLimits().GetRateLimit(ctx, "login:254712345678", now)
	require.NoError(t, err)
	require.Equal(t, goroutines, n)
}

func TestAccessTokenRevokeExcept(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	acct, err := s.Accounts().UpsertVerifiedPhone(ctx, idx.New().String(), "254712345678", domain.PlaceholderName, now)
	require.NoError(t, err)

	ids := []string{"jti-1", "jti-2", "jti-3"}
	for _, id := range ids {
		require.NoError(t, s.AccessTokens().CreateAccessToken(ctx, domain.AccessToken{
			ID:        id,
			AccountID: acct.ID,
			Name:      "auth_token",
			Abilities: []string{domain.AbilityAll},
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
		}))
	}

	require.NoError(t, s.AccessTokens().DeleteAccountTokensExcept(ctx, acct.ID, "jti-2"))

	kept, err := s.AccessTokens().GetAccessToken(ctx, "jti-2")
	require.NoError(t, err)
	require.Equal(t, []string{domain.AbilityAll}, kept.Abilities)

	_, err = s.AccessTokens().GetAccessToken(ctx, "jti-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting the account cascades to its tokens.
	require.NoError(t, s.Accounts().DeleteAccount(ctx, acct.ID))
	_, err = s.AccessTokens().GetAccessToken(ctx, "jti-2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGeographySeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	counties, err := s.Geography().ListCounties(ctx)
	require.NoError(t, err)
	require.Len(t, counties, 2)

	for _, c := range counties {
		cons, err := s.Geography().ListConstituencies(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, cons, 1)

		wards, err := s.Geography().ListWards(ctx, cons[0].ID)
		require.NoError(t, err)
		require.Len(t, wards, 6)
	}

	loc, err := s.Geography().GetWardLocation(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Siaya", loc.County.Name)
	require.Equal(t, loc.Constituency.ID, loc.Ward.ConstituencyID)

	_, err = s.Geography().GetWardLocation(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Accounts().UpsertVerifiedPhone(ctx, idx.New().String(), "254712345678", domain.PlaceholderName, now); err != nil {
			return err
		}
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Accounts().GetAccountByPhone(ctx, "254712345678")
	require.ErrorIs(t, err, store.ErrNotFound)
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/cryptox"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

const minPasswordLength = 8

var (
	verifyPassword = cryptox.VerifyPassword

	// dummyPasswordHash is checked when no admin matches the email, so that
	// unknown and known addresses cost the same argon2 work.
	dummyPasswordHash = sync.OnceValues(func() (string, error) {
		return cryptox.HashPassword("sauti-unknown-admin")
	})
)

// burnPasswordCheck runs one verification and discards the result.
func burnPasswordCheck(password string) {
	if h, err := dummyPasswordHash(); err == nil {
		_ = verifyPassword(password, h)
	}
}

// AdminAuthService handles the email and password login of the admin console.
type AdminAuthService struct {
	Store   store.Store
	Tokens  *TokenService
	MFA     *MFAService
	Guard   *ratelimit.Guard // optional
	Metrics *Metrics
	Now     func() time.Time
}

func (s *AdminAuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login authenticates an admin. Attempts are limited per client IP and the
// counter is cleared on success.
func (s *AdminAuthService) Login(ctx context.Context, email, password, totpCode, clientIP string) (result LoginResult, err error) {
	defer func() { s.Metrics.login("admin", err) }()
	l := slogx.FromContext(ctx)

	if s.Guard != nil {
		if err := s.Guard.Check(ctx, ratelimit.PolicyAdminLogin, clientIP); err != nil {
			l.Warn("admin login rate limited", "ip", clientIP)
			return LoginResult{}, err
		}
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		burnPasswordCheck(password)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !acct.IsAdmin || acct.PasswordHash == "" {
		burnPasswordCheck(password)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := verifyPassword(password, acct.PasswordHash); err != nil {
		l.Info("admin login with wrong password", "account_id", acct.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	if acct.SuspensionActive(now) {
		return LoginResult{}, &AccountSuspendedError{Until: acct.SuspendedUntil}
	}
	if acct.SuspensionExpired(now) {
		if err := s.Store.Accounts().ClearSuspension(ctx, acct.ID, now); err != nil {
			return LoginResult{}, err
		}
		acct.ClearSuspension()
	}

	if acct.MFAEnabled() {
		if totpCode == "" {
			return LoginResult{}, ErrMFARequired
		}
		if !s.MFA.Validate(acct, totpCode) {
			return LoginResult{}, ErrInvalidTOTPCode
		}
	}

	if err := s.Store.Accounts().UpdateLastLogin(ctx, acct.ID, now); err != nil {
		return LoginResult{}, err
	}
	acct.LastLoginAt = &now

	token, err := s.Tokens.Issue(ctx, acct, TokenNameAdmin, []string{domain.AbilityAdmin})
	if err != nil {
		return LoginResult{}, err
	}

	if s.Guard != nil {
		if err := s.Guard.Clear(ctx, ratelimit.PolicyAdminLogin, clientIP); err != nil {
			l.Warn("failed to clear admin login attempts", "error", err)
		}
	}

	l.Info("admin login", "account_id", acct.ID)
	return LoginResult{Token: token, Account: acct}, nil
}

// ChangePassword replaces the password and signs out every other session.
func (s *AdminAuthService) ChangePassword(ctx context.Context, accountID, current, next, keepJTI string) error {
	if len(next) < minPasswordLength {
		return invalidRequest("new password must be at least %d characters", minPasswordLength)
	}

	acct, err := (&AccountService{Store: s.Store}).GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.PasswordHash == "" || cryptox.VerifyPassword(current, acct.PasswordHash) != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}
	acct.PasswordHash = hash
	acct.UpdatedAt = s.now()
	if err := s.Store.Accounts().UpdateAccount(ctx, acct); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("admin password changed", "account_id", acct.ID)
	return s.Tokens.RevokeAllExcept(ctx, accountID, keepJTI)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

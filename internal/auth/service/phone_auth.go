package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/idx"
	"github.com/sautiyetu/sauti/pkg/phonex"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

// LoginResult is returned by both phone and admin logins.
type LoginResult struct {
	Token     domain.IssuedToken
	Account   domain.Account
	IsNewUser bool
}

// RegistrationInput is the profile submitted after the first login.
type RegistrationInput struct {
	Name           string
	WardID         int64
	ConstituencyID *int64
	CountyID       *int64
}

// PhoneAuthService logs citizens in with an OTP and completes their profile.
type PhoneAuthService struct {
	Store   store.Store
	OTP     *OTPService
	Tokens  *TokenService
	Guard   *ratelimit.Guard // optional
	Metrics *Metrics
	Now     func() time.Time
}

func (s *PhoneAuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login consumes the OTP, creates the account on first use and issues a
// token. A suspended account still consumes the code.
func (s *PhoneAuthService) Login(ctx context.Context, rawPhone, code string) (result LoginResult, err error) {
	defer func() { s.Metrics.login("phone", err) }()
	l := slogx.FromContext(ctx)

	phone, err := phonex.Normalize(rawPhone)
	if err != nil {
		return LoginResult{}, ErrInvalidPhoneFormat
	}

	if s.Guard != nil {
		if err := s.Guard.Check(ctx, ratelimit.PolicyLogin, phone); err != nil {
			return LoginResult{}, err
		}
	}

	now := s.now()
	var (
		acct      domain.Account
		suspended *AccountSuspendedError
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.OTP.consume(ctx, tx, phone, code, now); err != nil {
			return err
		}

		a, err := tx.Accounts().UpsertVerifiedPhone(ctx, idx.New().String(), phone, domain.PlaceholderName, now)
		if err != nil {
			return err
		}

		if a.SuspensionActive(now) {
			suspended = &AccountSuspendedError{Until: a.SuspendedUntil}
			return nil
		}
		if a.SuspensionExpired(now) {
			if err := tx.Accounts().ClearSuspension(ctx, a.ID, now); err != nil {
				return err
			}
			a.ClearSuspension()
			l.Info("expired suspension cleared", "account_id", a.ID)
		}

		if err := tx.Accounts().UpdateLastLogin(ctx, a.ID, now); err != nil {
			return err
		}
		a.LastLoginAt = &now
		acct = a
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidOrExpiredOTP) {
			l.Error("phone login failed", "phone", phonex.Mask(phone), "error", err)
		}
		return LoginResult{}, err
	}
	if suspended != nil {
		l.Info("login by suspended account", "phone", phonex.Mask(phone))
		return LoginResult{}, suspended
	}

	token, err := s.Tokens.Issue(ctx, acct, TokenNameMobile, []string{domain.AbilityAll})
	if err != nil {
		return LoginResult{}, err
	}

	if s.Guard != nil {
		if err := s.Guard.Clear(ctx, ratelimit.PolicyLogin, phone); err != nil {
			l.Warn("failed to clear login attempts", "error", err)
		}
	}

	l.Info("phone login", "account_id", acct.ID, "new_user", acct.IsNewUser())
	return LoginResult{Token: token, Account: acct, IsNewUser: acct.IsNewUser()}, nil
}

// CompleteRegistration sets the real name and home ward of a new account.
func (s *PhoneAuthService) CompleteRegistration(ctx context.Context, accountID string, in RegistrationInput) (domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	switch n := utf8.RuneCountInString(name); {
	case n < 2 || n > 255:
		return domain.Account{}, invalidRequest("name must be between 2 and 255 characters")
	case strings.EqualFold(name, domain.PlaceholderName):
		return domain.Account{}, invalidRequest("name is required")
	}
	if in.WardID <= 0 {
		return domain.Account{}, invalidRequest("ward_id is required")
	}

	if s.Guard != nil {
		if err := s.Guard.Check(ctx, ratelimit.PolicyRegister, accountID); err != nil {
			return domain.Account{}, err
		}
	}

	now := s.now()
	var acct domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		a, err := tx.Accounts().GetAccountByID(ctx, accountID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if a.IsRegistrationComplete() {
			return ErrAlreadyRegistered
		}

		loc, err := tx.Geography().GetWardLocation(ctx, in.WardID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrWardNotFound
		}
		if err != nil {
			return err
		}
		if in.ConstituencyID != nil && *in.ConstituencyID != loc.Constituency.ID {
			return ErrWardHierarchyMismatch
		}
		if in.CountyID != nil && *in.CountyID != loc.County.ID {
			return ErrWardHierarchyMismatch
		}

		a.Name = name
		a.WardID = &loc.Ward.ID
		a.UpdatedAt = now
		if err := tx.Accounts().UpdateAccount(ctx, a); err != nil {
			return err
		}
		acct = a
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("registration completed", "account_id", acct.ID, "ward_id", in.WardID)
	return acct, nil
}

// Logout revokes the token identified by jti.
func (s *PhoneAuthService) Logout(ctx context.Context, jti string) error {
	return s.Tokens.Revoke(ctx, jti)
}

// LogoutAll revokes every token of the account.
func (s *PhoneAuthService) LogoutAll(ctx context.Context, accountID string) error {
	return s.Tokens.RevokeAll(ctx, accountID)
}

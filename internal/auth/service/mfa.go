package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
)

// MFAService manages TOTP second factors for admin accounts.
type MFAService struct {
	Store  store.Store
	Issuer string // shown in authenticator apps, e.g. "Sauti"
	Now    func() time.Time
}

func (s *MFAService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnrollTOTP stores a new pending secret. MFA is not enforced until the
// admin proves possession with ConfirmTOTP.
func (s *MFAService) EnrollTOTP(ctx context.Context, accountID string) (domain.TOTPEnrollment, error) {
	acct, err := (&AccountService{Store: s.Store}).GetAccountByID(ctx, accountID)
	if err != nil {
		return domain.TOTPEnrollment{}, err
	}
	if !acct.IsAdmin {
		return domain.TOTPEnrollment{}, ErrNotAdmin
	}
	if acct.MFAEnabled() {
		return domain.TOTPEnrollment{}, ErrMFAAlreadyEnabled
	}

	label := acct.PhoneNumber
	if acct.Email != nil {
		label = *acct.Email
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: label,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	secret := key.Secret()
	acct.MFASecret = &secret
	acct.MFAEnabledAt = nil
	acct.UpdatedAt = s.now()
	if err := s.Store.Accounts().UpdateAccount(ctx, acct); err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("store totp secret: %w", err)
	}

	return domain.TOTPEnrollment{
		Secret:  secret,
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: label,
	}, nil
}

// ConfirmTOTP enables MFA once code matches the pending secret.
func (s *MFAService) ConfirmTOTP(ctx context.Context, accountID, code string) error {
	acct, err := (&AccountService{Store: s.Store}).GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.MFASecret == nil {
		return ErrMFANotEnrolled
	}
	if acct.MFAEnabled() {
		return ErrMFAAlreadyEnabled
	}
	if !s.Validate(acct, code) {
		return ErrInvalidTOTPCode
	}

	now := s.now()
	acct.MFAEnabledAt = &now
	acct.UpdatedAt = now
	return s.Store.Accounts().UpdateAccount(ctx, acct)
}

// DisableTOTP removes the second factor; a current code is required.
func (s *MFAService) DisableTOTP(ctx context.Context, accountID, code string) error {
	acct, err := (&AccountService{Store: s.Store}).GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !acct.MFAEnabled() {
		return ErrMFANotEnabled
	}
	if !s.Validate(acct, code) {
		return ErrInvalidTOTPCode
	}

	acct.MFASecret = nil
	acct.MFAEnabledAt = nil
	acct.UpdatedAt = s.now()
	return s.Store.Accounts().UpdateAccount(ctx, acct)
}

// Validate checks code against the account's secret at the current time,
// allowing one step of clock skew.
func (s *MFAService) Validate(acct domain.Account, code string) bool {
	if acct.MFASecret == nil || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, *acct.MFASecret, s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

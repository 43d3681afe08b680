package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrInvalidPhoneFormat    = errors.New("invalid phone number format")
	ErrRateLimited           = ratelimit.ErrRateLimited
	ErrInvalidOrExpiredOTP   = errors.New("invalid or expired OTP code")
	ErrAccountSuspended      = errors.New("account suspended")
	ErrAlreadyRegistered     = errors.New("registration already completed")
	ErrWardNotFound          = errors.New("ward not found")
	ErrWardHierarchyMismatch = errors.New("ward does not belong to the given constituency or county")
	ErrDeliveryFailed        = errors.New("sms delivery failed")
	ErrInvalidToken          = errors.New("invalid or revoked token")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("totp code required")
	ErrInvalidTOTPCode    = errors.New("invalid TOTP code")
	ErrMFANotEnrolled     = errors.New("TOTP not enrolled")
	ErrMFANotEnabled      = errors.New("TOTP not enabled")
	ErrMFAAlreadyEnabled  = errors.New("TOTP already enabled")

	ErrNotAdmin          = errors.New("account is not an admin")
	ErrLastSuperAdmin    = errors.New("cannot remove the last super admin")
	ErrCannotDeleteSelf  = errors.New("cannot delete your own account")
	ErrCannotSuspendSelf = errors.New("cannot suspend your own account")
)

// RateLimitedError carries the wait before the next attempt is allowed.
type RateLimitedError = ratelimit.RateLimitedError

// AccountSuspendedError carries the end of a timed suspension; Until is nil
// for suspensions that last until an admin lifts them.
type AccountSuspendedError struct {
	Until *time.Time
}

func (e *AccountSuspendedError) Error() string {
	if e.Until == nil {
		return ErrAccountSuspended.Error()
	}
	return fmt.Sprintf("%s until %s", ErrAccountSuspended, e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountSuspendedError) Unwrap() error { return ErrAccountSuspended }

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

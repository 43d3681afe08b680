package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/sms"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/cryptox"
	"github.com/sautiyetu/sauti/pkg/idx"
	"github.com/sautiyetu/sauti/pkg/phonex"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

const (
	DefaultOTPWindow = 10 * time.Minute
	MinOTPWindow     = 5 * time.Minute
	MaxOTPWindow     = 10 * time.Minute

	otpDigits = 6
)

// ClampOTPWindow keeps the code lifetime between MinOTPWindow and
// MaxOTPWindow; zero selects the default.
func ClampOTPWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultOTPWindow
	}
	return min(max(d, MinOTPWindow), MaxOTPWindow)
}

// OTPIssue describes a code that has just been sent.
type OTPIssue struct {
	Phone     string
	ExpiresAt time.Time
	ExpiresIn int // seconds
}

// OTPService issues and consumes the six digit login codes. At most one
// unconsumed, unexpired code exists per phone at any time.
type OTPService struct {
	Store   store.Store
	Sender  sms.Sender
	Window  time.Duration
	Metrics *Metrics
	Now     func() time.Time
}

func (s *OTPService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OTPService) window() time.Duration { return ClampOTPWindow(s.Window) }

// Request sends a fresh code to phone unless one is still active, in which
// case it returns *RateLimitedError with the remaining lifetime.
func (s *OTPService) Request(ctx context.Context, rawPhone string) (OTPIssue, error) {
	l := slogx.FromContext(ctx)

	phone, err := phonex.Normalize(rawPhone)
	if err != nil {
		s.Metrics.otpRequest("invalid_phone")
		return OTPIssue{}, ErrInvalidPhoneFormat
	}

	code, err := cryptox.GenerateNumericCode(otpDigits)
	if err != nil {
		return OTPIssue{}, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now()
	window := s.window()
	record := domain.OTPCode{
		ID:          idx.New().String(),
		PhoneNumber: phone,
		Code:        code,
		ExpiresAt:   now.Add(window),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		active, err := tx.OTPCodes().GetActiveOTP(ctx, phone, now)
		switch {
		case err == nil:
			return &RateLimitedError{Action: "otp", RetryAfter: otpRetryAfter(active, now)}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if err := tx.OTPCodes().DeleteOTPsForPhone(ctx, phone); err != nil {
			return err
		}
		if err := tx.OTPCodes().CreateOTP(ctx, record); err != nil {
			// Lost a race with a concurrent request for the same phone.
			if errors.Is(err, store.ErrAlreadyExists) {
				return &RateLimitedError{Action: "otp", RetryAfter: window}
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.Metrics.otpRequest("rate_limited")
			l.Info("otp request while code active", "phone", phonex.Mask(phone))
			return OTPIssue{}, err
		}
		l.Error("failed to store otp", "phone", phonex.Mask(phone), "error", err)
		return OTPIssue{}, err
	}

	s.deliver(ctx, phone, code, window)
	s.Metrics.otpRequest("sent")

	return OTPIssue{
		Phone:     phone,
		ExpiresAt: record.ExpiresAt,
		ExpiresIn: int(window / time.Second),
	}, nil
}

// deliver hands the code to the SMS driver. Failures are logged, not
// returned: the code is stored and the user can ask again once it expires.
func (s *OTPService) deliver(ctx context.Context, phone, code string, window time.Duration) {
	msg := fmt.Sprintf("Your Sauti verification code is %s. It expires in %d minutes.", code, int(window/time.Minute))
	if err := s.Sender.Send(ctx, phone, msg); err != nil {
		err = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		s.Metrics.smsFailed()
		slogx.FromContext(ctx).Warn("otp not delivered", "phone", phonex.Mask(phone), "error", err)
	}
}

// Verify consumes the active code matching phone and code.
func (s *OTPService) Verify(ctx context.Context, rawPhone, code string) error {
	phone, err := phonex.Normalize(rawPhone)
	if err != nil {
		return ErrInvalidPhoneFormat
	}
	now := s.now()
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return s.consume(ctx, tx, phone, code, now)
	})
}

// consume marks the code verified inside tx. The conditional update lets only
// one of several concurrent verifiers succeed.
func (s *OTPService) consume(ctx context.Context, tx store.Tx, phone, code string, now time.Time) error {
	if !validCode(code) {
		return ErrInvalidOrExpiredOTP
	}

	record, err := tx.OTPCodes().FindActiveOTP(ctx, phone, code, now)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidOrExpiredOTP
	}
	if err != nil {
		return err
	}

	if err := tx.OTPCodes().ConsumeOTP(ctx, record.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpiredOTP
		}
		return err
	}
	return nil
}

// RemainingTime returns the seconds left on the active code, 0 when none.
func (s *OTPService) RemainingTime(ctx context.Context, rawPhone string) (int, error) {
	phone, err := phonex.Normalize(rawPhone)
	if err != nil {
		return 0, ErrInvalidPhoneFormat
	}
	now := s.now()
	record, err := s.Store.OTPCodes().GetActiveOTP(ctx, phone, now)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(otpRetryAfter(record, now) / time.Second), nil
}

// otpRetryAfter is the wait before a new code may be requested. Expiry is
// stored in whole seconds, so now is truncated the same way, and an active
// code always reports at least one second.
func otpRetryAfter(active domain.OTPCode, now time.Time) time.Duration {
	secs := active.RemainingSeconds(now.Truncate(time.Second))
	return time.Duration(max(secs, 1)) * time.Second
}

// Cleanup removes consumed and expired codes.
func (s *OTPService) Cleanup(ctx context.Context) (int64, error) {
	return s.Store.OTPCodes().DeleteStaleOTPs(ctx, s.now())
}

func validCode(code string) bool {
	if len(code) != otpDigits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

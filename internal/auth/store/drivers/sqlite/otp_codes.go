package sqlite

import (
	"context"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
)

type otpCodesRepo struct {
	q *gen.Queries
}

func (r *otpCodesRepo) GetActiveOTP(ctx context.Context, phone string, now time.Time) (domain.OTPCode, error) {
	row, err := r.q.GetActiveOTP(ctx, gen.GetActiveOTPParams{PhoneNumber: phone, Now: ts(now)})
	if err != nil {
		return domain.OTPCode{}, mapNotFound(err)
	}
	return mapOTPCode(row), nil
}

func (r *otpCodesRepo) FindActiveOTP(ctx context.Context, phone, code string, now time.Time) (domain.OTPCode, error) {
	row, err := r.q.FindActiveOTP(ctx, gen.FindActiveOTPParams{
		PhoneNumber: phone,
		Code:        code,
		Now:         ts(now),
	})
	if err != nil {
		return domain.OTPCode{}, mapNotFound(err)
	}
	return mapOTPCode(row), nil
}

func (r *otpCodesRepo) CreateOTP(ctx context.Context, o domain.OTPCode) error {
	return mapConstraint(r.q.CreateOTP(ctx, gen.CreateOTPParams{
		ID:          o.ID,
		PhoneNumber: o.PhoneNumber,
		Code:        o.Code,
		ExpiresAt:   ts(o.ExpiresAt),
		CreatedAt:   ts(o.CreatedAt),
		UpdatedAt:   ts(o.UpdatedAt),
	}))
}

func (r *otpCodesRepo) ConsumeOTP(ctx context.Context, id string, now time.Time) error {
	return rowsOrNotFound(r.q.ConsumeOTP(ctx, gen.ConsumeOTPParams{UpdatedAt: ts(now), ID: id}))
}

func (r *otpCodesRepo) DeleteOTPsForPhone(ctx context.Context, phone string) error {
	return r.q.DeleteOTPsForPhone(ctx, phone)
}

func (r *otpCodesRepo) DeleteStaleOTPs(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteStaleOTPs(ctx, ts(now))
}

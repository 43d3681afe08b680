package sqlite

import (
	"context"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
)

// rate_limits.reset_at is unix seconds; windows never need sub-second precision.
type rateLimitsRepo struct {
	q *gen.Queries
}

func (r *rateLimitsRepo) HitRateLimit(ctx context.Context, key string, resetAt, now time.Time) (int, time.Time, error) {
	row, err := r.q.HitRateLimit(ctx, gen.HitRateLimitParams{
		Key:     key,
		ResetAt: resetAt.Unix(),
		Now:     now.Unix(),
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return int(row.Attempts), time.Unix(row.ResetAt, 0).UTC(), nil
}

func (r *rateLimitsRepo) GetRateLimit(ctx context.Context, key string, now time.Time) (int, time.Time, error) {
	row, err := r.q.GetRateLimit(ctx, gen.GetRateLimitParams{Key: key, Now: now.Unix()})
	if err != nil {
		return 0, time.Time{}, mapNotFound(err)
	}
	return int(row.Attempts), time.Unix(row.ResetAt, 0).UTC(), nil
}

func (r *rateLimitsRepo) DeleteRateLimit(ctx context.Context, key string) error {
	return r.q.DeleteRateLimit(ctx, key)
}

func (r *rateLimitsRepo) DeleteExpiredRateLimits(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredRateLimits(ctx, now.Unix())
}

package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/store"
)

// StoreLimiter keeps counters in the relational store. Each hit is a single
// upsert, so concurrent hits never lose an increment.
type StoreLimiter struct {
	Repo store.RateLimits
	Now  func() time.Time
}

func NewStoreLimiter(repo store.RateLimits) *StoreLimiter {
	return &StoreLimiter{Repo: repo, Now: time.Now}
}

func (l *StoreLimiter) Hit(ctx context.Context, key string, decay time.Duration) (int, error) {
	now := l.Now()
	n, _, err := l.Repo.HitRateLimit(ctx, key, now.Add(decay), now)
	return n, err
}

func (l *StoreLimiter) Attempts(ctx context.Context, key string) (int, error) {
	n, _, err := l.Repo.GetRateLimit(ctx, key, l.Now())
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	return n, err
}

func (l *StoreLimiter) TooManyAttempts(ctx context.Context, key string, max int) (bool, error) {
	n, err := l.Attempts(ctx, key)
	if err != nil {
		return false, err
	}
	return n >= max, nil
}

func (l *StoreLimiter) AvailableIn(ctx context.Context, key string) (time.Duration, error) {
	now := l.Now()
	_, resetAt, err := l.Repo.GetRateLimit(ctx, key, now)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return max(resetAt.Sub(now), 0), nil
}

func (l *StoreLimiter) Clear(ctx context.Context, key string) error {
	return l.Repo.DeleteRateLimit(ctx, key)
}

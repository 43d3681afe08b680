// Package ratelimit implements the fixed-window attempt counters that guard
// OTP requests, logins and the other throttled actions.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrRateLimited = errors.New("ratelimit: too many attempts")

// Limiter counts attempts per key in fixed windows. The first Hit opens a
// window of decay; later hits inside it do not extend it.
type Limiter interface {
	Hit(ctx context.Context, key string, decay time.Duration) (int, error)
	Attempts(ctx context.Context, key string) (int, error)
	TooManyAttempts(ctx context.Context, key string, max int) (bool, error)
	AvailableIn(ctx context.Context, key string) (time.Duration, error)
	Clear(ctx context.Context, key string) error
}

// Policy is a named attempt budget.
type Policy struct {
	Action      string
	MaxAttempts int
	Decay       time.Duration
}

var (
	PolicyRegister   = Policy{Action: "register", MaxAttempts: 3, Decay: time.Hour}
	PolicyLogin      = Policy{Action: "login", MaxAttempts: 5, Decay: 15 * time.Minute}
	PolicyOTP        = Policy{Action: "otp", MaxAttempts: 3, Decay: time.Hour}
	PolicyPost       = Policy{Action: "post", MaxAttempts: 10, Decay: time.Hour}
	PolicyDefault    = Policy{Action: "default", MaxAttempts: 60, Decay: time.Minute}
	PolicyAdminLogin = Policy{Action: "admin-login", MaxAttempts: 5, Decay: 5 * time.Minute}
)

// Key builds the counter key for action and identifier.
func Key(action, identifier string) string {
	return "rate_limit:" + action + ":" + identifier
}

// RateLimitedError reports how long the caller has to wait.
type RateLimitedError struct {
	Action     string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s, retry in %ds", ErrRateLimited, e.RetryAfterSeconds())
	}
	return fmt.Sprintf("%s for %s, retry in %ds", ErrRateLimited, e.Action, e.RetryAfterSeconds())
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// RetryAfterSeconds rounds RetryAfter up to whole seconds.
func (e *RateLimitedError) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// Guard applies policies on top of a Limiter.
type Guard struct {
	Limiter Limiter
	Metrics *Metrics
}

func NewGuard(l Limiter, m *Metrics) *Guard {
	return &Guard{Limiter: l, Metrics: m}
}

// Check records the attempt and rejects with *RateLimitedError once the
// policy budget for identifier is used up. The count comes back from the
// same Hit that records it, so concurrent callers cannot both take the last
// slot.
func (g *Guard) Check(ctx context.Context, p Policy, identifier string) error {
	key := Key(p.Action, identifier)

	n, err := g.Limiter.Hit(ctx, key, p.Decay)
	if err != nil {
		return err
	}
	if n > p.MaxAttempts {
		wait, err := g.Limiter.AvailableIn(ctx, key)
		if err != nil {
			return err
		}
		g.Metrics.rejected(p.Action)
		return &RateLimitedError{Action: p.Action, RetryAfter: wait}
	}

	g.Metrics.hit(p.Action)
	return nil
}

// Clear resets the policy counter for identifier, e.g. after a successful login.
func (g *Guard) Clear(ctx context.Context, p Policy, identifier string) error {
	return g.Limiter.Clear(ctx, Key(p.Action, identifier))
}

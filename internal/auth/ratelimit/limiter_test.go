package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStoreLimiter(t *testing.T) (*ratelimit.StoreLimiter, *clock) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	c := &clock{now: time.Unix(1_700_000_000, 0)}
	l := ratelimit.NewStoreLimiter(s.RateLimits())
	l.Now = c.Now
	return l, c
}

func TestKey(t *testing.T) {
	require.Equal(t, "rate_limit:otp:254712345678", ratelimit.Key("otp", "254712345678"))
}

func TestStoreLimiterFixedWindow(t *testing.T) {
	ctx := context.Background()
	l, c := newStoreLimiter(t)
	key := ratelimit.Key("login", "254712345678")

	n, err := l.Attempts(ctx, key)
	require.NoError(t, err)
	require.Zero(t, n)

	for i := 1; i <= 3; i++ {
		n, err := l.Hit(ctx, key, time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, n)
		c.Advance(10 * time.Second)
	}

	tooMany, err := l.TooManyAttempts(ctx, key, 3)
	require.NoError(t, err)
	require.True(t, tooMany)

	// Hits inside the window do not extend it.
	wait, err := l.AvailableIn(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, wait)

	c.Advance(31 * time.Second)
	n, err = l.Attempts(ctx, key)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = l.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, l.Clear(ctx, key))
	wait, err = l.AvailableIn(ctx, key)
	require.NoError(t, err)
	require.Zero(t, wait)
}

func TestGuardRejectsOverBudget(t *testing.T) {
	ctx := context.Background()
	l, c := newStoreLimiter(t)

	reg := prometheus.NewRegistry()
	metrics := ratelimit.NewMetrics(reg)
	guard := ratelimit.NewGuard(l, metrics)

	policy := ratelimit.Policy{Action: "otp", MaxAttempts: 2, Decay: time.Hour}

	require.NoError(t, guard.Check(ctx, policy, "254712345678"))
	require.NoError(t, guard.Check(ctx, policy, "254712345678"))

	c.Advance(15 * time.Minute)
	err := guard.Check(ctx, policy, "254712345678")
	require.ErrorIs(t, err, ratelimit.ErrRateLimited)

	var rl *ratelimit.RateLimitedError
	require.True(t, errors.As(err, &rl))
	require.Equal(t, "otp", rl.Action)
	require.Equal(t, 45*60, rl.RetryAfterSeconds())

	// Other identifiers have their own budget.
	require.NoError(t, guard.Check(ctx, policy, "254700000000"))

	require.Equal(t, 3.0, testutil.ToFloat64(metrics.Hits.WithLabelValues("otp")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejections.WithLabelValues("otp")))

	require.NoError(t, guard.Clear(ctx, policy, "254712345678"))
	require.NoError(t, guard.Check(ctx, policy, "254712345678"))
}

// checkConcurrently fires n Guard.Check calls at once and counts the
// outcomes.
func checkConcurrently(t *testing.T, guard *ratelimit.Guard, p ratelimit.Policy, id string, n int) (passed, limited int32) {
	t.Helper()

	var wg sync.WaitGroup
	var ok, rejected, failed atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := guard.Check(context.Background(), p, id)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ratelimit.ErrRateLimited):
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, failed.Load(), "unexpected limiter errors")
	return ok.Load(), rejected.Load()
}

func TestStoreLimiterConcurrentHits(t *testing.T) {
	ctx := context.Background()
	l, _ := newStoreLimiter(t)
	key := ratelimit.Key("login", "254712345678")
	const goroutines = 50

	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = l.Hit(ctx, key, time.Minute)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	n, err := l.Attempts(ctx, key)
	require.NoError(t, err)
	require.Equal(t, goroutines, n)
}

func TestGuardConcurrentChecksStayWithinBudget(t *testing.T) {
	l, _ := newStoreLimiter(t)
	guard := ratelimit.NewGuard(l, nil)
	policy := ratelimit.Policy{Action: "login", MaxAttempts: 5, Decay: time.Hour}

	passed, limited := checkConcurrently(t, guard, policy, "254712345678", 40)
	require.Equal(t, int32(5), passed)
	require.Equal(t, int32(35), limited)
}

func TestGuardWithoutMetrics(t *testing.T) {
	l, _ := newStoreLimiter(t)
	guard := ratelimit.NewGuard(l, nil)
	require.NoError(t, guard.Check(context.Background(), ratelimit.PolicyDefault, "127.0.0.1"))
}

func TestRateLimitedErrorRoundsUp(t *testing.T) {
	err := &ratelimit.RateLimitedError{RetryAfter: 1500 * time.Millisecond}
	require.Equal(t, 2, err.RetryAfterSeconds())
	require.Zero(t, (&ratelimit.RateLimitedError{}).RetryAfterSeconds())
}

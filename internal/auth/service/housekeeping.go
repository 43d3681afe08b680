package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/store"
)

// HousekeepingService periodically deletes consumed or expired OTPs, expired
// access tokens and elapsed rate limit windows.
type HousekeepingService struct {
	Store    store.Store
	OTP      *OTPService
	Tokens   *TokenService
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to one hour.
func NewHousekeepingService(st store.Store, otp *OTPService, tokens *TokenService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		OTP:      otp,
		Tokens:   tokens,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single cleanup pass. Each step is independent, a
// failure in one does not skip the others. It returns the rows removed.
func (s *HousekeepingService) RunOnce(ctx context.Context) int64 {
	var total int64

	steps := []struct {
		name string
		fn   func(context.Context) (int64, error)
	}{
		{"otp codes", s.OTP.Cleanup},
		{"access tokens", s.Tokens.Cleanup},
		{"rate limits", func(ctx context.Context) (int64, error) {
			return s.Store.RateLimits().DeleteExpiredRateLimits(ctx, s.Now())
		}},
	}
	for _, step := range steps {
		n, err := step.fn(ctx)
		if err != nil {
			s.Logger.Error("housekeeping step failed", "step", step.name, "error", err)
			continue
		}
		s.Logger.Debug("housekeeping step done", "step", step.name, "deleted", n)
		total += n
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted", total)
	return total
}

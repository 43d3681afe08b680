package domain

import "time"

// OTPCode is a one-time login code sent by SMS.
type OTPCode struct {
	ID          string
	PhoneNumber string
	Code        string
	ExpiresAt   time.Time
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active reports an unconsumed code that has not expired.
func (o *OTPCode) Active(now time.Time) bool {
	return !o.Verified && o.ExpiresAt.After(now)
}

// RemainingSeconds until expiry, never negative.
func (o *OTPCode) RemainingSeconds(now time.Time) int {
	d := o.ExpiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

package domain

import (
	"slices"
	"time"
)

// PlaceholderName is given to accounts created by their first OTP login.
const PlaceholderName = "User"

// Account is a citizen or admin identity keyed by phone number.
type Account struct {
	ID          string
	PhoneNumber string // canonical 2547XXXXXXXX / 2541XXXXXXXX
	Name        string
	Email       *string // admins only
	WardID      *int64

	IsAdmin     bool
	AdminRole   *Role
	Permissions []Permission

	IsSuspended    bool
	SuspendedUntil *time.Time

	PasswordHash string  // admins only
	MFASecret    *string // pending or active TOTP secret
	MFAEnabledAt *time.Time

	PhoneVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRegistrationComplete reports whether the profile step after the first
// login has been done.
func (a *Account) IsRegistrationComplete() bool {
	return a.WardID != nil && a.Name != "" && a.Name != PlaceholderName
}

func (a *Account) IsNewUser() bool { return !a.IsRegistrationComplete() }

func (a *Account) IsSuperAdmin() bool {
	return a.IsAdmin && a.AdminRole != nil && *a.AdminRole == RoleSuperAdmin
}

func (a *Account) MFAEnabled() bool { return a.MFAEnabledAt != nil && a.MFASecret != nil }

// SuspensionActive reports whether the account is currently locked out.
// A suspension without an end date lasts until an admin lifts it.
func (a *Account) SuspensionActive(now time.Time) bool {
	if !a.IsSuspended {
		return false
	}
	return a.SuspendedUntil == nil || a.SuspendedUntil.After(now)
}

// SuspensionExpired reports a timed suspension whose end has passed and
// which should be cleared on the next login.
func (a *Account) SuspensionExpired(now time.Time) bool {
	return a.IsSuspended && a.SuspendedUntil != nil && !a.SuspendedUntil.After(now)
}

// ClearSuspension lifts any suspension.
func (a *Account) ClearSuspension() {
	a.IsSuspended = false
	a.SuspendedUntil = nil
}

// HasPermission is always true for super admins, for any string.
func (a *Account) HasPermission(p Permission) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return slices.Contains(a.Permissions, p)
}

// HasAnyPermission is false for an empty list unless the account is a super admin.
func (a *Account) HasAnyPermission(ps ...Permission) bool {
	if a.IsSuperAdmin() {
		return true
	}
	for _, p := range ps {
		if slices.Contains(a.Permissions, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is true for an empty list.
func (a *Account) HasAllPermissions(ps ...Permission) bool {
	if a.IsSuperAdmin() {
		return true
	}
	for _, p := range ps {
		if !slices.Contains(a.Permissions, p) {
			return false
		}
	}
	return true
}

// GrantPermissions appends the permissions not already held, keeping order.
func (a *Account) GrantPermissions(ps ...Permission) {
	for _, p := range ps {
		if !slices.Contains(a.Permissions, p) {
			a.Permissions = append(a.Permissions, p)
		}
	}
}

func (a *Account) RevokePermissions(ps ...Permission) {
	a.Permissions = slices.DeleteFunc(a.Permissions, func(p Permission) bool {
		return slices.Contains(ps, p)
	})
}

// SyncPermissions replaces the permission set, dropping duplicates.
func (a *Account) SyncPermissions(ps ...Permission) {
	a.Permissions = nil
	a.GrantPermissions(ps...)
}

// AssignRole makes the account an admin with r and r's default permissions.
func (a *Account) AssignRole(r Role) {
	a.IsAdmin = true
	a.AdminRole = &r
	a.SyncPermissions(r.DefaultPermissions()...)
}

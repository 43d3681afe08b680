package domain_test

import (
	"testing"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRegistrationComplete(t *testing.T) {
	tests := []struct {
		name string
		acc  domain.Account
		want bool
	}{
		{"fresh account", domain.Account{Name: domain.PlaceholderName}, false},
		{"ward but placeholder name", domain.Account{Name: domain.PlaceholderName, WardID: ptr(int64(1))}, false},
		{"name but no ward", domain.Account{Name: "Akinyi"}, false},
		{"empty name", domain.Account{WardID: ptr(int64(1))}, false},
		{"complete", domain.Account{Name: "Akinyi", WardID: ptr(int64(1))}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.acc.IsRegistrationComplete())
			require.Equal(t, !tc.want, tc.acc.IsNewUser())
		})
	}
}

func TestSuspension(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	indefinite := domain.Account{IsSuspended: true}
	require.True(t, indefinite.SuspensionActive(now))
	require.False(t, indefinite.SuspensionExpired(now))

	future := domain.Account{IsSuspended: true, SuspendedUntil: ptr(now.Add(time.Hour))}
	require.True(t, future.SuspensionActive(now))
	require.False(t, future.SuspensionExpired(now))

	past := domain.Account{IsSuspended: true, SuspendedUntil: ptr(now.Add(-time.Hour))}
	require.False(t, past.SuspensionActive(now))
	require.True(t, past.SuspensionExpired(now))

	past.ClearSuspension()
	require.False(t, past.IsSuspended)
	require.Nil(t, past.SuspendedUntil)

	var clean domain.Account
	require.False(t, clean.SuspensionActive(now))
	require.False(t, clean.SuspensionExpired(now))
}

func TestSuperAdminBypass(t *testing.T) {
	var acc domain.Account
	acc.AssignRole(domain.RoleSuperAdmin)
	acc.SyncPermissions()

	require.True(t, acc.IsSuperAdmin())
	for _, p := range []domain.Permission{"users.view", "admins.delete", "does.not.exist", ""} {
		require.True(t, acc.HasPermission(p), "permission %q", p)
	}
	require.True(t, acc.HasAnyPermission())
	require.True(t, acc.HasAllPermissions("x", "y"))

	acc.IsAdmin = false
	require.False(t, acc.IsSuperAdmin(), "role without admin flag is not a super admin")
}

func TestPermissionChecks(t *testing.T) {
	var acc domain.Account
	acc.AssignRole(domain.RoleModerator)

	require.True(t, acc.IsAdmin)
	require.True(t, acc.HasPermission(domain.PermModerationAction))
	require.False(t, acc.HasPermission(domain.PermAdminsView))

	require.True(t, acc.HasAnyPermission(domain.PermAdminsView, domain.PermPostsView))
	require.False(t, acc.HasAnyPermission(domain.PermAdminsView, domain.PermSettingsEdit))
	require.False(t, acc.HasAnyPermission())

	require.True(t, acc.HasAllPermissions(domain.PermUsersView, domain.PermPostsView))
	require.False(t, acc.HasAllPermissions(domain.PermUsersView, domain.PermAdminsView))
	require.True(t, acc.HasAllPermissions())
}

func TestGrantRevokeSync(t *testing.T) {
	var acc domain.Account
	acc.AssignRole(domain.RoleAnalyst)
	require.Equal(t, domain.RoleAnalyst.DefaultPermissions(), acc.Permissions)

	acc.GrantPermissions(domain.PermUsersView, domain.PermSettingsView, domain.PermSettingsView)
	require.Equal(t, []domain.Permission{
		domain.PermUsersView, domain.PermPostsView, domain.PermAnalyticsView, domain.PermAnalyticsExport,
		domain.PermSettingsView,
	}, acc.Permissions)

	acc.RevokePermissions(domain.PermPostsView, domain.PermAdminsDelete)
	require.NotContains(t, acc.Permissions, domain.PermPostsView)
	require.Len(t, acc.Permissions, 4)

	acc.SyncPermissions(domain.PermAdminsView, domain.PermAdminsView, domain.PermUsersView)
	require.Equal(t, []domain.Permission{domain.PermAdminsView, domain.PermUsersView}, acc.Permissions)

	acc.AssignRole(domain.RoleContentManager)
	require.Equal(t, domain.RoleContentManager.DefaultPermissions(), acc.Permissions)
}

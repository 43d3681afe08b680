package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sautiyetu/sauti/pkg/authsdk"
)

func TestBootstrappedSuperAdmin(t *testing.T) {
	c := setupAuthContainer(t)
	root := c.adminSession(t)

	me, err := root.AdminMe(t.Context())
	require.NoError(t, err)
	require.Equal(t, "super_admin", me.Account.AdminRole)
	require.Equal(t, adminEmail, me.Account.Email)

	_, err = c.Client.AdminLogin(t.Context(), authsdk.AdminLoginRequest{Email: adminEmail, Password: "wrong password"})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
}

func TestAdminManagement(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()
	root := c.adminSession(t)

	created, err := root.CreateAdmin(ctx, authsdk.CreateAdminRequest{
		Name:     "Wanjiru",
		Email:    "wanjiru@sauti.example",
		Phone:    "0700000002",
		Password: "moderator password",
		Role:     "moderator",
	})
	require.NoError(t, err)
	require.Equal(t, "moderator", created.Account.AdminRole)
	require.NotEmpty(t, created.Account.Permissions)

	login, err := c.Client.AdminLogin(ctx, authsdk.AdminLoginRequest{Email: "wanjiru@sauti.example", Password: "moderator password"})
	require.NoError(t, err)
	moderator := c.Client.Session(login.Token)

	// Moderators cannot manage admins.
	_, err = moderator.ListAdmins(ctx)
	apiErr := requireAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeForbidden)
	require.Contains(t, apiErr.RequiredPermissions, "admins.view")

	role := "admin"
	updated, err := root.UpdateAdmin(ctx, created.Account.ID, authsdk.UpdateAdminRequest{Role: &role})
	require.NoError(t, err)
	require.Equal(t, "admin", updated.Account.AdminRole)

	admins, err := root.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins.Admins, 2)

	catalogue, err := root.RolesAndPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, catalogue.Roles, 5)

	require.NoError(t, root.DeleteAdmin(ctx, created.Account.ID))
	_, err = moderator.AdminMe(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

func TestSoleSuperAdminCannotDeleteSelf(t *testing.T) {
	c := setupAuthContainer(t)
	root := c.adminSession(t)

	me, err := root.AdminMe(t.Context())
	require.NoError(t, err)

	err = root.DeleteAdmin(t.Context(), me.Account.ID)
	requireAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeForbidden)
}

func TestSuspendCitizen(t *testing.T) {
	c := setupAuthContainer(t)
	ctx := t.Context()
	root := c.adminSession(t)

	citizen := c.phoneLogin(t, "0712345678")

	until := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	suspended, err := root.SuspendUser(ctx, citizen.Account.ID, authsdk.SuspendRequest{Until: &until})
	require.NoError(t, err)
	require.True(t, suspended.Account.IsSuspended)

	// Suspension revokes existing tokens.
	_, err = c.Client.Session(citizen.Token).Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	issued, err := c.Client.RequestOTP(ctx, "0712345678")
	require.NoError(t, err)
	_, err = c.Client.Login(ctx, "0712345678", c.latestCode(t, issued.Phone))
	apiErr := requireAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeAccountSuspended)
	require.NotNil(t, apiErr.SuspendedUntil)
	require.True(t, until.Equal(*apiErr.SuspendedUntil))

	_, err = root.ActivateUser(ctx, citizen.Account.ID)
	require.NoError(t, err)

	got, err := root.GetUser(ctx, citizen.Account.ID)
	require.NoError(t, err)
	require.False(t, got.Account.IsSuspended)

	c.phoneLogin(t, "0712345678")
}

package authsdk

import (
	"context"
	"net/http"
)

func (s *Session) AdminMe(ctx context.Context) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodGet, "/v1/admin/auth/me", s.token, nil, http.StatusOK)
}

func (s *Session) AdminLogout(ctx context.Context) error {
	return s.noContent(ctx, http.MethodPost, "/v1/admin/auth/logout", nil)
}

func (s *Session) AdminLogoutAll(ctx context.Context) error {
	return s.noContent(ctx, http.MethodPost, "/v1/admin/auth/logout-all", nil)
}

// ChangePassword rotates the admin password and revokes every other token.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	return s.noContent(ctx, http.MethodPost, "/v1/admin/auth/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
}

// ListAdmins requires admins.view.
func (s *Session) ListAdmins(ctx context.Context) (*ListAdminsResponse, error) {
	return call[ListAdminsResponse](ctx, s.client, http.MethodGet, "/v1/admin/admins", s.token, nil, http.StatusOK)
}

// CreateAdmin requires admins.create.
func (s *Session) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPost, "/v1/admin/admins", s.token, req, http.StatusCreated)
}

// UpdateAdmin requires admins.edit.
func (s *Session) UpdateAdmin(ctx context.Context, id string, req UpdateAdminRequest) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPatch, "/v1/admin/admins/"+id, s.token, req, http.StatusOK)
}

// DeleteAdmin requires admins.delete.
func (s *Session) DeleteAdmin(ctx context.Context, id string) error {
	return s.noContent(ctx, http.MethodDelete, "/v1/admin/admins/"+id, nil)
}

// RolesAndPermissions requires admins.view.
func (s *Session) RolesAndPermissions(ctx context.Context) (*RolesPermissionsResponse, error) {
	return call[RolesPermissionsResponse](ctx, s.client, http.MethodGet, "/v1/admin/roles-permissions", s.token, nil, http.StatusOK)
}

// GetUser requires users.view.
func (s *Session) GetUser(ctx context.Context, id string) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodGet, "/v1/admin/users/"+id, s.token, nil, http.StatusOK)
}

// SuspendUser requires users.suspend.
func (s *Session) SuspendUser(ctx context.Context, id string, req SuspendRequest) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPost, "/v1/admin/users/"+id+"/suspend", s.token, req, http.StatusOK)
}

// ActivateUser requires users.suspend.
func (s *Session) ActivateUser(ctx context.Context, id string) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPost, "/v1/admin/users/"+id+"/activate", s.token, nil, http.StatusOK)
}

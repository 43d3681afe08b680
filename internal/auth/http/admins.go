package http

import (
	"net/http"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
)

// AdminsHandler serves admin account management and user suspension.
type AdminsHandler struct {
	Admins *service.AdminUserService
}

// HandleList handles GET /v1/admin/admins
//
//	@Summary		List admins
//	@Tags			Admins
//	@Security		BearerAuth
//	@Produce		json
//	@Param			role	query		string	false	"Filter by role"
//	@Success		200		{object}	authsdk.ListAdminsResponse
//	@Failure		403		{object}	authsdk.APIError	"Insufficient permissions"
//	@Failure		422		{object}	authsdk.APIError	"Unknown role"
//	@Router			/v1/admin/admins [get].
func (h *AdminsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			authsdk.NewAPIError(http.StatusUnprocessableEntity, authsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
			return
		}
		role = &parsed
	}

	admins, err := h.Admins.List(r.Context(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := authsdk.ListAdminsResponse{Admins: make([]authsdk.AccountInfo, 0, len(admins))}
	for _, a := range admins {
		resp.Admins = append(resp.Admins, accountInfo(a))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/admin/admins
//
//	@Summary		Create an admin
//	@Description	Permissions default to the role's set unless given explicitly.
//	@Tags			Admins
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateAdminRequest	true	"Admin"
//	@Success		201		{object}	authsdk.AccountResponse
//	@Failure		409		{object}	authsdk.APIError	"Email or phone already in use"
//	@Failure		422		{object}	authsdk.APIError	"Validation failed"
//	@Router			/v1/admin/admins [post].
func (h *AdminsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CreateAdminRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	acct, err := h.Admins.Create(r.Context(), service.CreateAdminInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleUpdate handles PATCH /v1/admin/admins/{id}
//
//	@Summary		Update an admin
//	@Description	A role change resets permissions to the role defaults before any explicit list is applied.
//	@Tags			Admins
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Account ID"
//	@Param			request	body		authsdk.UpdateAdminRequest	true	"Changes"
//	@Success		200		{object}	authsdk.AccountResponse
//	@Failure		404		{object}	authsdk.APIError	"Admin not found"
//	@Failure		409		{object}	authsdk.APIError	"Would demote the last super admin"
//	@Router			/v1/admin/admins/{id} [patch].
func (h *AdminsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateAdminRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	acct, err := h.Admins.Update(r.Context(), r.PathValue("id"), service.UpdateAdminInput{
		Name:        req.Name,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleDelete handles DELETE /v1/admin/admins/{id}
//
//	@Summary		Delete an admin
//	@Tags			Admins
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Account ID"
//	@Success		204
//	@Failure		403	{object}	authsdk.APIError	"Cannot delete yourself"
//	@Failure		404	{object}	authsdk.APIError	"Admin not found"
//	@Failure		409	{object}	authsdk.APIError	"Last super admin"
//	@Router			/v1/admin/admins/{id} [delete].
func (h *AdminsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := httpx.AccountIDFromContext(r.Context())
	if err := h.Admins.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRolesPermissions handles GET /v1/admin/roles-permissions
//
//	@Summary		Roles and permissions catalogue
//	@Tags			Admins
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.RolesPermissionsResponse
//	@Router			/v1/admin/roles-permissions [get].
func (h *AdminsHandler) HandleRolesPermissions(w http.ResponseWriter, r *http.Request) {
	roles, groups := h.Admins.RolesAndPermissions()

	resp := authsdk.RolesPermissionsResponse{
		Roles:       make([]authsdk.RoleInfo, 0, len(roles)),
		Permissions: make([]authsdk.PermissionGroup, 0, len(groups)),
	}
	for _, role := range roles {
		resp.Roles = append(resp.Roles, authsdk.RoleInfo{
			Value:              role.String(),
			Label:              role.Label(),
			Description:        role.Description(),
			DefaultPermissions: permissionStrings(role.DefaultPermissions()),
		})
	}
	for _, g := range groups {
		group := authsdk.PermissionGroup{Category: g.Category}
		for _, p := range g.Permissions {
			group.Permissions = append(group.Permissions, authsdk.PermissionInfo{Value: p.String(), Label: p.Label()})
		}
		resp.Permissions = append(resp.Permissions, group)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetUser handles GET /v1/admin/users/{id}
//
//	@Summary		Get any account
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	authsdk.AccountResponse
//	@Failure		404	{object}	authsdk.APIError	"Account not found"
//	@Router			/v1/admin/users/{id} [get].
func (h *AdminsHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	acct, err := h.Admins.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleSuspend handles POST /v1/admin/users/{id}/suspend
//
//	@Summary		Suspend an account
//	@Description	Revokes every token of the account. Omit until for an indefinite suspension.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account ID"
//	@Param			request	body		authsdk.SuspendRequest	false	"Suspension end"
//	@Success		200		{object}	authsdk.AccountResponse
//	@Failure		403		{object}	authsdk.APIError	"Cannot suspend yourself"
//	@Failure		404		{object}	authsdk.APIError	"Account not found"
//	@Router			/v1/admin/users/{id}/suspend [post].
func (h *AdminsHandler) HandleSuspend(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SuspendRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	actor := httpx.AccountIDFromContext(r.Context())
	acct, err := h.Admins.Suspend(r.Context(), actor, r.PathValue("id"), req.Until)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleActivate handles POST /v1/admin/users/{id}/activate
//
//	@Summary		Lift a suspension
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	authsdk.AccountResponse
//	@Failure		404	{object}	authsdk.APIError	"Account not found"
//	@Router			/v1/admin/users/{id}/activate [post].
func (h *AdminsHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	acct, err := h.Admins.Activate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

func permissionStrings(ps []domain.Permission) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.String())
	}
	return out
}

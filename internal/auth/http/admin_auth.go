package http

import (
	"net/http"

	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
)

// AdminAuthHandler serves the admin console login and session endpoints.
type AdminAuthHandler struct {
	Auth   *service.AdminAuthService
	Tokens *service.TokenService
}

// HandleLogin handles POST /v1/admin/auth/login
//
//	@Summary		Admin login
//	@Description	Email and password login for admin accounts. A TOTP code is required once TOTP is enabled.
//	@Tags			Admin Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.AdminLoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		401		{object}	authsdk.APIError	"Invalid credentials or TOTP code"
//	@Failure		403		{object}	authsdk.APIError	"Account suspended"
//	@Failure		429		{object}	authsdk.APIError	"Too many attempts"
//	@Router			/v1/admin/auth/login [post].
func (h *AdminAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AdminLoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Email, req.Password, req.TOTPCode, httpx.IPKeyExtractor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse(res))
}

// HandleMe handles GET /v1/admin/auth/me
//
//	@Summary		Current admin
//	@Tags			Admin Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AccountResponse
//	@Failure		401	{object}	authsdk.APIError	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.APIError	"Not an admin"
//	@Router			/v1/admin/auth/me [get].
func (h *AdminAuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	acct, ok := accountFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleLogout handles POST /v1/admin/auth/logout
//
//	@Summary		Revoke the current admin token
//	@Tags			Admin Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Invalid or missing access token"
//	@Router			/v1/admin/auth/logout [post].
func (h *AdminAuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpx.ClaimsFromContext(r.Context())
	if err := h.Tokens.Revoke(r.Context(), claims.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutAll handles POST /v1/admin/auth/logout-all
//
//	@Summary		Revoke every token of the admin
//	@Tags			Admin Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Invalid or missing access token"
//	@Router			/v1/admin/auth/logout-all [post].
func (h *AdminAuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Tokens.RevokeAll(r.Context(), httpx.AccountIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangePassword handles POST /v1/admin/auth/change-password
//
//	@Summary		Change password
//	@Description	Every other session of the admin is revoked; the calling token stays valid.
//	@Tags			Admin Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangePasswordRequest	true	"Passwords"
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Wrong current password"
//	@Failure		422	{object}	authsdk.APIError	"New password too short"
//	@Router			/v1/admin/auth/change-password [post].
func (h *AdminAuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	claims, _ := httpx.ClaimsFromContext(r.Context())
	if err := h.Auth.ChangePassword(r.Context(), claims.Subject, req.CurrentPassword, req.NewPassword, claims.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

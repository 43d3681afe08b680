package http

import (
	"net/http"

	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
	"github.com/sautiyetu/sauti/pkg/phonex"
)

// AuthHandler serves the citizen OTP login and registration endpoints.
type AuthHandler struct {
	OTP      *service.OTPService
	Phone    *service.PhoneAuthService
	Accounts *service.AccountService
	Guard    *ratelimit.Guard // optional
}

// HandleRequestOTP handles POST /v1/auth/request-otp
//
//	@Summary		Request an OTP
//	@Description	Sends a six digit code by SMS. Only one code is active per phone; asking again while one is active returns 429 with the remaining seconds.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RequestOTPRequest	true	"Phone number"
//	@Success		200		{object}	authsdk.RequestOTPResponse
//	@Failure		400		{object}	authsdk.APIError	"Malformed body"
//	@Failure		422		{object}	authsdk.APIError	"Invalid phone number"
//	@Failure		429		{object}	authsdk.APIError	"Code still active or too many requests"
//	@Router			/v1/auth/request-otp [post].
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RequestOTPRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	phone, err := phonex.Normalize(req.Phone)
	if err != nil {
		writeError(w, r, service.ErrInvalidPhoneFormat)
		return
	}

	// Counted per number so one phone can't be flooded from many IPs.
	if h.Guard != nil {
		if err := h.Guard.Check(ctx, ratelimit.PolicyOTP, phone); err != nil {
			writeError(w, r, err)
			return
		}
	}

	issue, err := h.OTP.Request(ctx, phone)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RequestOTPResponse{
		Message:   "OTP sent successfully",
		Phone:     issue.Phone,
		ExpiresIn: issue.ExpiresIn,
	})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with an OTP
//	@Description	Consumes the code and returns a bearer token. The account is created on first login; is_new_user stays true until registration is completed.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Phone and code"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		401		{object}	authsdk.APIError	"Invalid or expired code"
//	@Failure		403		{object}	authsdk.APIError	"Account suspended"
//	@Failure		422		{object}	authsdk.APIError	"Invalid phone number"
//	@Failure		429		{object}	authsdk.APIError	"Too many attempts"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Phone.Login(r.Context(), req.Phone, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse(res))
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Complete registration
//	@Description	Sets the display name and home ward after the first login.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Profile"
//	@Success		200		{object}	authsdk.AccountResponse
//	@Failure		401		{object}	authsdk.APIError	"Invalid or missing access token"
//	@Failure		409		{object}	authsdk.APIError	"Already registered"
//	@Failure		422		{object}	authsdk.APIError	"Validation failed"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	acct, err := h.Phone.CompleteRegistration(r.Context(), httpx.AccountIDFromContext(r.Context()), service.RegistrationInput{
		Name:           req.Name,
		WardID:         req.WardID,
		ConstituencyID: req.ConstituencyID,
		CountyID:       req.CountyID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleMe handles GET /v1/auth/me
//
//	@Summary		Current account
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AccountResponse
//	@Failure		401	{object}	authsdk.APIError	"Invalid or missing access token"
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	acct, err := h.Accounts.GetAccountByID(r.Context(), httpx.AccountIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{Account: accountInfo(acct)})
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Revoke the current token
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Invalid or missing access token"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := httpx.ClaimsFromContext(r.Context())
	if err := h.Phone.Logout(r.Context(), claims.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutAll handles POST /v1/auth/logout-all
//
//	@Summary		Revoke every token of the account
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Invalid or missing access token"
//	@Router			/v1/auth/logout-all [post].
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Phone.LogoutAll(r.Context(), httpx.AccountIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

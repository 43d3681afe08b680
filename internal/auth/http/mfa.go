package http

import (
	"net/http"

	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

// MFAHandler serves TOTP enrolment for admin accounts.
type MFAHandler struct {
	MFA *service.MFAService
}

// HandleEnroll handles POST /v1/admin/mfa/totp/enroll
//
//	@Summary		Start TOTP enrolment
//	@Description	Generates a TOTP secret for the calling admin. The secret is pending until confirmed with a valid code.
//	@Tags			Admin MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TOTPEnrollResponse	"TOTP secret and otpauth URL"
//	@Failure		401	{object}	authsdk.APIError			"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.APIError			"Not an admin"
//	@Failure		409	{object}	authsdk.APIError			"TOTP already enabled"
//	@Router			/v1/admin/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrollment, err := h.MFA.EnrollTOTP(ctx, httpx.AccountIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TOTPEnrollResponse{
		Secret:  enrollment.Secret,
		QRCode:  enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleVerify handles POST /v1/admin/mfa/totp/verify
//
//	@Summary		Confirm TOTP enrolment
//	@Description	Verifies a code against the pending secret and enables TOTP for the admin.
//	@Tags			Admin MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Invalid code or token"
//	@Failure		409	{object}	authsdk.APIError	"Not enrolled or already enabled"
//	@Router			/v1/admin/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.TOTPCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	accountID := httpx.AccountIDFromContext(ctx)
	if err := h.MFA.ConfirmTOTP(ctx, accountID, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("totp enabled", "account_id", accountID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable handles DELETE /v1/admin/mfa/totp
//
//	@Summary		Disable TOTP
//	@Description	Requires a current code.
//	@Tags			Admin MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204
//	@Failure		401	{object}	authsdk.APIError	"Invalid code or token"
//	@Failure		409	{object}	authsdk.APIError	"TOTP not enabled"
//	@Router			/v1/admin/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.TOTPCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	accountID := httpx.AccountIDFromContext(ctx)
	if err := h.MFA.DisableTOTP(ctx, accountID, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("totp disabled", "account_id", accountID)
	w.WriteHeader(http.StatusNoContent)
}

package authsdk

import (
	"context"
	"net/http"
)

// EnrollTOTP generates a new pending TOTP secret for the admin.
func (s *Session) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	return call[TOTPEnrollResponse](ctx, s.client, http.MethodPost, "/v1/admin/mfa/totp/enroll", s.token, nil, http.StatusOK)
}

// ConfirmTOTP activates the pending secret after checking code against it.
func (s *Session) ConfirmTOTP(ctx context.Context, code string) error {
	return s.noContent(ctx, http.MethodPost, "/v1/admin/mfa/totp/verify", TOTPCodeRequest{Code: code})
}

// DisableTOTP removes TOTP after checking a current code.
func (s *Session) DisableTOTP(ctx context.Context, code string) error {
	return s.noContent(ctx, http.MethodDelete, "/v1/admin/mfa/totp", TOTPCodeRequest{Code: code})
}

package http

import (
	"errors"
	"net/http"

	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
	"github.com/sautiyetu/sauti/pkg/httpx"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

// writeError maps service errors onto the JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apiError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
	}
	apiErr.WriteError(w)
}

func apiError(err error) *authsdk.APIError {
	var (
		rl   *service.RateLimitedError
		susp *service.AccountSuspendedError
	)
	switch {
	case errors.As(err, &rl):
		return authsdk.RateLimited(rl.RetryAfterSeconds())
	case errors.As(err, &susp):
		return authsdk.AccountSuspended(susp.Until)
	case errors.Is(err, httpx.ErrBadJSON):
		return authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Request body is not valid JSON.")
	case errors.Is(err, service.ErrInvalidPhoneFormat):
		return authsdk.ErrInvalidPhoneFormat
	case errors.Is(err, service.ErrInvalidOrExpiredOTP):
		return authsdk.ErrInvalidOrExpiredOTP
	case errors.Is(err, service.ErrAlreadyRegistered):
		return authsdk.ErrAlreadyRegistered
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrWardNotFound),
		errors.Is(err, service.ErrWardHierarchyMismatch),
		errors.Is(err, service.ErrNotAdmin):
		return authsdk.NewAPIError(http.StatusUnprocessableEntity, authsdk.ErrorCodeInvalidRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return authsdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrMFARequired):
		return authsdk.ErrMFARequired
	case errors.Is(err, service.ErrInvalidTOTPCode):
		return authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials, "Invalid TOTP code.")
	case errors.Is(err, service.ErrMFANotEnrolled),
		errors.Is(err, service.ErrMFANotEnabled),
		errors.Is(err, service.ErrMFAAlreadyEnabled),
		errors.Is(err, service.ErrConflict):
		return authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, err.Error())
	case errors.Is(err, service.ErrLastSuperAdmin):
		return authsdk.ErrLastSuperAdmin
	case errors.Is(err, service.ErrCannotDeleteSelf),
		errors.Is(err, service.ErrCannotSuspendSelf):
		return authsdk.Forbidden(err.Error())
	case errors.Is(err, service.ErrNotFound):
		return authsdk.ErrNotFound
	case errors.Is(err, service.ErrInvalidToken):
		return authsdk.ErrInvalidToken
	default:
		return authsdk.ErrServerError
	}
}

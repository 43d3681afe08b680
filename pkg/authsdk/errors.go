package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sautiyetu/sauti/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeInvalidPhoneFormat  = "invalid_phone_format"
	ErrorCodeRateLimited         = "rate_limited"
	ErrorCodeInvalidOrExpiredOTP = "invalid_or_expired_otp"
	ErrorCodeAccountSuspended    = "account_suspended"
	ErrorCodeAlreadyRegistered   = "already_registered"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeLastSuperAdmin      = "last_super_admin"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeMFARequired         = "mfa_required"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeConflict            = "conflict"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeServerError         = "server_error"
)

// APIError is the error body returned by every endpoint. The server writes it
// with WriteError; the client decodes non-2xx responses into it.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`

	RetryAfter          int        `json:"retry_after,omitempty"`
	SuspendedUntil      *time.Time `json:"suspended_until,omitempty"`
	RequiredPermissions []string   `json:"required_permissions,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as JSON. Rate limit errors also set Retry-After.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(e.RetryAfter))
	}
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewAPIError builds an error with a custom description.
func NewAPIError(status int, code, description string) *APIError {
	return &APIError{StatusCode: status, Code: code, Description: description}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}
	ErrInvalidPhoneFormat = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeInvalidPhoneFormat,
		Description: "Invalid phone number format. Use a Kenyan number such as 0712345678.",
	}
	ErrInvalidOrExpiredOTP = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidOrExpiredOTP,
		Description: "Invalid or expired OTP code.",
	}
	ErrAlreadyRegistered = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyRegistered,
		Description: "Registration has already been completed for this account.",
	}
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "Invalid credentials.",
	}
	ErrMFARequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeMFARequired,
		Description: "A TOTP code is required for this account.",
	}
	ErrLastSuperAdmin = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeLastSuperAdmin,
		Description: "Cannot delete the last super admin.",
	}
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid, expired or revoked",
	}
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// RateLimited returns a 429 error asking the caller to wait retryAfter seconds.
func RateLimited(retryAfter int) *APIError {
	return &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: fmt.Sprintf("Too many attempts. Please wait %d seconds before trying again.", retryAfter),
		RetryAfter:  retryAfter,
	}
}

// AccountSuspended returns a 403 error; until is nil for indefinite suspensions.
func AccountSuspended(until *time.Time) *APIError {
	return &APIError{
		StatusCode:     http.StatusForbidden,
		Code:           ErrorCodeAccountSuspended,
		Description:    "Your account has been suspended.",
		SuspendedUntil: until,
	}
}

// Forbidden returns a 403 error listing the permissions that would have
// allowed the request.
func Forbidden(description string, required ...string) *APIError {
	return &APIError{
		StatusCode:          http.StatusForbidden,
		Code:                ErrorCodeForbidden,
		Description:         description,
		RequiredPermissions: required,
	}
}

// parseErrorResponse turns a non-2xx response body into *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		if apiErr.RetryAfter == 0 {
			apiErr.RetryAfter, _ = strconv.Atoi(resp.Header.Get("Retry-After"))
		}
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

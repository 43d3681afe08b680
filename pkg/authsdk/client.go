package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient calls the public endpoints of the auth service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Session wraps a bearer token obtained from Login or AdminLogin.
func (c *SDKClient) Session(token string) *Session {
	return &Session{client: c, token: token}
}

// RequestOTP asks the service to text a login code to phone.
func (c *SDKClient) RequestOTP(ctx context.Context, phone string) (*RequestOTPResponse, error) {
	return call[RequestOTPResponse](ctx, c, http.MethodPost, "/v1/auth/request-otp", "", RequestOTPRequest{Phone: phone}, http.StatusOK)
}

// Login exchanges a phone + OTP for a bearer token, creating the account on
// first use.
func (c *SDKClient) Login(ctx context.Context, phone, code string) (*LoginResponse, error) {
	return call[LoginResponse](ctx, c, http.MethodPost, "/v1/auth/login", "", LoginRequest{Phone: phone, Code: code}, http.StatusOK)
}

// AdminLogin authenticates an admin with email and password (+ TOTP when enrolled).
func (c *SDKClient) AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error) {
	return call[LoginResponse](ctx, c, http.MethodPost, "/v1/admin/auth/login", "", req, http.StatusOK)
}

func (c *SDKClient) ListCounties(ctx context.Context) (*ListCountiesResponse, error) {
	return call[ListCountiesResponse](ctx, c, http.MethodGet, "/v1/geography/counties", "", nil, http.StatusOK)
}

func (c *SDKClient) ListConstituencies(ctx context.Context, countyID int64) (*ListConstituenciesResponse, error) {
	path := fmt.Sprintf("/v1/geography/counties/%d/constituencies", countyID)
	return call[ListConstituenciesResponse](ctx, c, http.MethodGet, path, "", nil, http.StatusOK)
}

func (c *SDKClient) ListWards(ctx context.Context, constituencyID int64) (*ListWardsResponse, error) {
	path := fmt.Sprintf("/v1/geography/constituencies/%d/wards", constituencyID)
	return call[ListWardsResponse](ctx, c, http.MethodGet, path, "", nil, http.StatusOK)
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/livez", "", nil, http.StatusOK)
}

// GetReadiness checks if the service is ready; a 503 is returned as *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/readyz", "", nil, http.StatusOK)
}

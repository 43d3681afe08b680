package authsdk

import (
	"context"
	"net/http"
)

// Session performs requests with a bearer token. Tokens are long lived and
// are not refreshed; a revoked or expired token yields ErrorCodeInvalidToken.
type Session struct {
	client *SDKClient
	token  string
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

func (s *Session) noContent(ctx context.Context, method, path string, body any) error {
	resp, err := s.client.do(ctx, method, path, s.token, body)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Me returns the authenticated account.
func (s *Session) Me(ctx context.Context) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodGet, "/v1/auth/me", s.token, nil, http.StatusOK)
}

// Register completes the profile of a new account.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*AccountResponse, error) {
	return call[AccountResponse](ctx, s.client, http.MethodPost, "/v1/auth/register", s.token, req, http.StatusOK)
}

// Logout revokes this token.
func (s *Session) Logout(ctx context.Context) error {
	return s.noContent(ctx, http.MethodPost, "/v1/auth/logout", nil)
}

// LogoutAll revokes every token of the account, this one included.
func (s *Session) LogoutAll(ctx context.Context) error {
	return s.noContent(ctx, http.MethodPost, "/v1/auth/logout-all", nil)
}

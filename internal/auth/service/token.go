package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/jwtx"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

const (
	TokenNameMobile = "mobile"
	TokenNameAdmin  = "admin-console"
)

// TokenService issues and checks bearer tokens. Tokens are signed JWTs whose
// jti must still have a row in access_tokens; deleting the row revokes them.
type TokenService struct {
	Signer *jwtx.Signer
	Store  store.Store
	Issuer string
	TTL    time.Duration
	Now    func() time.Time

	verifier *jwtx.Verifier
}

func NewTokenService(signer *jwtx.Signer, st store.Store, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	return &TokenService{
		Signer:   signer,
		Store:    st,
		Issuer:   issuer,
		TTL:      ttl,
		Now:      time.Now,
		verifier: signer.Verifier(issuer),
	}
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Ready reports whether a signing key is loaded.
func (s *TokenService) Ready() bool {
	return s.Signer != nil && s.verifier != nil && s.verifier.Ready()
}

// Issue signs a token for acct and records its jti.
func (s *TokenService) Issue(ctx context.Context, acct domain.Account, name string, abilities []string) (domain.IssuedToken, error) {
	now := s.now()
	claims := jwtx.NewAccessClaims(acct.ID, name, abilities, s.TTL, s.Issuer, now)

	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	record := domain.AccessToken{
		ID:        claims.ID,
		AccountID: acct.ID,
		Name:      name,
		Abilities: abilities,
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: now,
	}
	if err := s.Store.AccessTokens().CreateAccessToken(ctx, record); err != nil {
		return domain.IssuedToken{}, fmt.Errorf("record token: %w", err)
	}

	return domain.IssuedToken{Token: signed, TokenID: claims.ID, ExpiresAt: record.ExpiresAt}, nil
}

// Authenticate verifies a bearer token and that it has not been revoked.
func (s *TokenService) Authenticate(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		slogx.FromContext(ctx).Debug("token rejected", "error", err)
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	record, err := s.Store.AccessTokens().GetAccessToken(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return jwtx.Claims{}, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}
	if err != nil {
		return jwtx.Claims{}, err
	}
	if record.AccountID != claims.Subject {
		return jwtx.Claims{}, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	if err := s.Store.AccessTokens().TouchAccessToken(ctx, record.ID, s.now()); err != nil {
		slogx.FromContext(ctx).Warn("failed to touch token", "error", err)
	}
	return claims, nil
}

func (s *TokenService) Revoke(ctx context.Context, jti string) error {
	return s.Store.AccessTokens().DeleteAccessToken(ctx, jti)
}

func (s *TokenService) RevokeAll(ctx context.Context, accountID string) error {
	return s.Store.AccessTokens().DeleteAccountTokens(ctx, accountID)
}

func (s *TokenService) RevokeAllExcept(ctx context.Context, accountID, keepJTI string) error {
	return s.Store.AccessTokens().DeleteAccountTokensExcept(ctx, accountID, keepJTI)
}

// Cleanup removes expired token records.
func (s *TokenService) Cleanup(ctx context.Context) (int64, error) {
	return s.Store.AccessTokens().DeleteExpiredAccessTokens(ctx, s.now())
}

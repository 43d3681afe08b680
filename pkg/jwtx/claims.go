package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sautiyetu/sauti/pkg/cryptox"
)

// DefaultAccessTokenTTL is how long a mobile bearer token lives when the
// service does not override it.
const DefaultAccessTokenTTL = 30 * 24 * time.Hour

const (
	// AbilityAll grants every non-admin ability.
	AbilityAll = "*"
	// AbilityAdmin marks admin console tokens. It is never implied by AbilityAll.
	AbilityAdmin = "admin"
)

// Claims carried in every bearer token. The jti doubles as the revocation
// handle stored server side.
type Claims struct {
	jwt.RegisteredClaims

	// Abilities limit what the token can be used for: ["*"] for app
	// sessions, ["admin"] for admin console sessions.
	Abilities []string `json:"abilities,omitempty"`

	// Name is the token label ("mobile", "admin-console").
	Name string `json:"name,omitempty"`
}

// NewAccessClaims builds claims for subject valid from now for ttl.
func NewAccessClaims(
	subject, name string,
	abilities []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Abilities: abilities,
		Name:      name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	// GenerateToken only fails for a non-positive size.
	jti, _ := cryptox.GenerateToken(cryptox.TokenSize256)
	return jti
}

// Can reports whether the token carries ability, honouring the "*" wildcard
// for everything except "admin".
func (c *Claims) Can(ability string) bool {
	if slices.Contains(c.Abilities, ability) {
		return true
	}
	return ability != AbilityAdmin && slices.Contains(c.Abilities, AbilityAll)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

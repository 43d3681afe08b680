package domain

import "time"

const (
	AbilityAll   = "*"
	AbilityAdmin = "admin"
)

// AccessToken is the server-side record of an issued bearer token; its ID
// is the token's jti. Deleting the row revokes the token.
type AccessToken struct {
	ID         string
	AccountID  string
	Name       string
	Abilities  []string
	ExpiresAt  time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// IssuedToken is handed back to the client.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

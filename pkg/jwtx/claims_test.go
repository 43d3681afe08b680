package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sautiyetu/sauti/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "sauti-auth"}}

	require.NoError(t, c.ValidateIssuer("sauti-auth"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid window", func(t *testing.T) {
		c := jwtx.NewAccessClaims("acc", "mobile", nil, time.Minute, "iss", now)
		require.NoError(t, c.ValidateExpiry(now.Add(30*time.Second)))
	})

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewAccessClaims("acc", "mobile", nil, time.Minute, "iss", now)
		require.ErrorIs(t, c.ValidateExpiry(now.Add(2*time.Minute)), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewAccessClaims("acc", "mobile", nil, time.Minute, "iss", now)
		require.ErrorIs(t, c.ValidateExpiry(now.Add(-time.Minute)), jwtx.ErrNotYetValid)
	})
}

func TestCan(t *testing.T) {
	app := jwtx.Claims{Abilities: []string{jwtx.AbilityAll}}
	require.True(t, app.Can("posts.create"))
	require.False(t, app.Can("admin"), "wildcard must not reach the admin console")

	admin := jwtx.Claims{Abilities: []string{"admin"}}
	require.True(t, admin.Can("admin"))
	require.False(t, admin.Can("posts.create"))
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/shared"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(shared.Actor{ID: 7, Role: shared.RoleAdmin})
	require.NoError(t, err)

	actor, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, shared.Actor{ID: 7, Role: shared.RoleAdmin}, actor)
}

func TestTokenRejectsExpiredAndForeign(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(shared.Actor{ID: 7, Role: shared.RoleUser})
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	other := NewTokenIssuer("other", time.Hour)
	_, err = other.Parse(token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = issuer.Parse("not-a-token")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:   3,
		Role: "ROOT",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", 0).Parse(signed)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

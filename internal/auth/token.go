package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medbill/medbill/internal/shared"
)

// DefaultTokenTTL is the lifetime of bearer tokens.
const DefaultTokenTTL = 24 * time.Hour

var errInvalidToken = shared.NewError(shared.ErrUnauthorized, "Invalid token!")

type claims struct {
	ID   int64       `json:"_id"`
	Role shared.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds a TokenIssuer. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for actor.
func (t *TokenIssuer) Issue(actor shared.Actor) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("auth: empty token secret")
	}
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID:   actor.ID,
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns the actor it was issued for.
func (t *TokenIssuer) Parse(raw string) (shared.Actor, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return shared.Actor{}, errInvalidToken
	}
	if c.ID <= 0 || !c.Role.Valid() {
		return shared.Actor{}, errInvalidToken
	}
	return shared.Actor{ID: c.ID, Role: c.Role}, nil
}

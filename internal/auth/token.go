// Package auth signs and verifies the session tokens the collection
// endpoint hands out at login. The dashboard capability travels as a claim
// so the summary handler never needs a user lookup.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims carry the informant name and the dashboard-access capability.
type Claims struct {
	Name string `json:"name"`
	Dash bool   `json:"dash"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for the named user.
func SignToken(secret []byte, name string, dash bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		Dash: dash,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the token and returns its claims.
func ParseToken(secret []byte, tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) { return secret, nil })
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

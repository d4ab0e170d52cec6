package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

// TokenIssuer mints the HS256 bearer tokens handed out on login and signup
// for subsequent API calls.
type TokenIssuer struct {
	secret string
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, ttl: ttl}
}

func (t *TokenIssuer) Issue(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"identity_id": sess.IdentityID,
		"username":    sess.Username,
		"role":        string(sess.Role),
		"exp":         time.Now().Add(t.ttl).Unix(),
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString([]byte(t.secret))
}

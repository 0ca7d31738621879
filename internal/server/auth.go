package server

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APIClaims is the token payload accepted on authenticated routes.
type APIClaims struct {
	Subject string `json:"sub_name"`
	jwt.RegisteredClaims
}

// IssueToken signs an API token for the given subject. Used by operators
// to mint service tokens when JWT auth is enabled.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := &APIClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(secret)
}

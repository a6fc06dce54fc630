// Package auth issues and verifies the HS256 bearer tokens that guard batch
// triggers.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const batchScope = "batch:run"

var (
	ErrEmptySecret  = errors.New("empty jwt secret")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// IssueToken returns a signed batch token for subject valid for ttl.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		Scope: batchScope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "batch-" + now.UTC().Format("20060102T150405"),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken validates signature, expiry and scope.
func VerifyToken(secret []byte, tokenStr string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope != batchScope {
		return nil, errors.Join(ErrInvalidToken, errors.New("missing batch scope"))
	}
	return claims, nil
}

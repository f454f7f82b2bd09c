package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload for the verifying authorizer.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthorizer verifies a Bearer token and takes the role from its claims.
// It is the drop-in hardened replacement for HeaderAuthorizer; the HTTP
// surface and service logic stay unchanged when it is swapped in.
type JWTAuthorizer struct {
	Secret []byte
}

// NewJWTAuthorizer creates a JWTAuthorizer with the given HMAC secret.
func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{Secret: []byte(secret)}
}

// Authorize validates the Authorization header and returns the role claim.
func (a *JWTAuthorizer) Authorize(r *http.Request) (Role, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoIdentity
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrNoIdentity
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Role == "" {
		return "", errors.New("auth: token carries no role")
	}
	return Role(claims.Role), nil
}

// SignRole issues a token asserting the given role. Used by tests and tooling.
func (a *JWTAuthorizer) SignRole(role Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: string(role)})
	return token.SignedString(a.Secret)
}

package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims encodes the JWT claims embedded into admin access tokens.
//
// This is a DTO matching the server's access token contract. The SDK keeps
// this struct local so it never depends on server-side modules.
type Claims struct {
	UserID  string `json:"uid"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`

	jwt.RegisteredClaims
}

// DecodeClaims extracts claims from an access token without verifying the
// signature. The SDK holds no key material; the server remains the authority
// on token validity. Used only as a hydration fallback when the persisted
// identity fields are missing.
func DecodeClaims(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("auth: empty token")
	}
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, errors.New("auth: token carries no user id")
	}
	return &claims, nil
}

// UserSummary converts decoded claims into the identity summary shape.
func (c *Claims) UserSummary() User {
	return User{
		ID:      c.UserID,
		Role:    c.Role,
		IsAdmin: c.IsAdmin,
	}
}

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims exposes the token attributes callers are allowed to read without
// tying them to the JWT encoding.
type Claims interface {
	Subject() string
	IssuedAt() time.Time
	Expires() time.Time
	TokenID() string
}

// TokenClaims is the concrete claim set carried by access and activation
// tokens: a subject (username or email), issued-at, and expiry. Nothing else
// is embedded; role resolution always goes through the account store.
type TokenClaims struct {
	jwt.RegisteredClaims
}

var _ Claims = (*TokenClaims)(nil)

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// TokenID returns the unique token identifier
func (c *TokenClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

package gatherly

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents the structured identity claims a token carries
type AuthClaims interface {
	Subject() string
	DisplayName() string
	Picture() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Image string `json:"picture,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the username
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// DisplayName returns the display name claim
func (c *JWTClaims) DisplayName() string {
	return c.Name
}

// Picture returns the optional profile image claim
func (c *JWTClaims) Picture() string {
	return c.Image
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

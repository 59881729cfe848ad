package gatherly

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	Username() string
	DisplayName() string
	ImageURL() string
}

// AuthenticatedUser is the response shape shared by login, currentUser,
// and register. Token is always non-empty on success; the struct is never
// returned partially populated.
type AuthenticatedUser struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Token       string `json:"token"`
	Image       string `json:"image,omitempty"`
}

// CredentialStore owns user records and password verification
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (Identity, error)
	FindByUsername(ctx context.Context, username string) (Identity, error)
	VerifyPassword(ctx context.Context, identity Identity, password string) error
}

// TokenService issues and validates signed identity tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// CurrentUserAccessor resolves the username of the already authenticated
// caller. How the principal was established from the token is the
// middleware's concern, not the handler's.
type CurrentUserAccessor interface {
	CurrentUsername(ctx context.Context) (string, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATHERLY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATHERLY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATHERLY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATHERLY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

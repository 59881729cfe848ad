package gatherly

import (
	"context"
)

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

type contextUserAccessor struct{}

// NewContextUserAccessor resolves the current principal from claims placed
// in the request context by the JWT middleware.
func NewContextUserAccessor() CurrentUserAccessor {
	return contextUserAccessor{}
}

func (contextUserAccessor) CurrentUsername(ctx context.Context) (string, error) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return "", ErrUnableToFindSession
	}

	if claims.Subject() == "" {
		return "", ErrUnableToDecodeSession
	}

	return claims.Subject(), nil
}

package gatherly

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-gatherly/middleware/jwtware"
)

// jwtValidatorAdapter bridges a TokenValidator to the middleware's narrower
// claims contract.
type jwtValidatorAdapter struct {
	validator TokenValidator
}

var _ jwtware.TokenValidator = (*jwtValidatorAdapter)(nil)

func (a jwtValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ProtectedRoute returns a fiber middleware that rejects requests without a
// valid bearer token. On success the claims land in the request's user
// context so handlers can resolve the principal through GetClaims.
func ProtectedRoute(cfg Config, tokens TokenService, errorHandlers ...func(*fiber.Ctx, error) error) fiber.Handler {
	return ProtectedRouteWithValidator(cfg, tokens, errorHandlers...)
}

// ProtectedRouteWithValidator is ProtectedRoute with an arbitrary validator,
// e.g. a MultiTokenValidator combining the local token service with a
// RemoteTokenValidator for externally issued tokens.
func ProtectedRouteWithValidator(cfg Config, validator TokenValidator, errorHandlers ...func(*fiber.Ctx, error) error) fiber.Handler {
	var errorHandler func(*fiber.Ctx, error) error
	if len(errorHandlers) > 0 {
		errorHandler = errorHandlers[0]
	}

	return jwtware.New(jwtware.Config{
		ContextKey:     cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		AuthScheme:     cfg.GetAuthScheme(),
		TokenValidator: jwtValidatorAdapter{validator: validator},
		ErrorHandler:   errorHandler,
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})
}

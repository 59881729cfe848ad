package gatherly_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gatherly "github.com/goliatone/go-gatherly"
	"github.com/stretchr/testify/assert"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")
	audience := jwt.ClaimStrings{"test-audience"}

	t.Run("creates token service with logger", func(t *testing.T) {
		service := gatherly.NewTokenService(signingKey, 24, "test-issuer", audience, &MockLogger{})
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := gatherly.NewTokenService(signingKey, 24, "test-issuer", audience, nil)
		assert.NotNil(t, service)
	})
}

func TestTokenService_Generate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}

	service := gatherly.NewTokenService(signingKey, 24, issuer, audience, nil)

	identity := TestIdentity{Name: "ada", Display: "Ada Lovelace", Image: "ada.png"}

	t.Run("generates a valid signed token", func(t *testing.T) {
		tokenString, err := service.Generate(identity)

		assert.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		token, err := jwt.ParseWithClaims(tokenString, &gatherly.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})

		assert.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(*gatherly.JWTClaims)
		assert.True(t, ok)
		assert.Equal(t, "ada", claims.Subject())
		assert.Equal(t, "Ada Lovelace", claims.DisplayName())
		assert.Equal(t, "ada.png", claims.Picture())
		assert.Equal(t, issuer, claims.Issuer)
		assert.Equal(t, audience, claims.Audience)
		assert.NotNil(t, claims.RegisteredClaims.IssuedAt)
		assert.NotNil(t, claims.RegisteredClaims.ExpiresAt)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("sets the configured expiration window", func(t *testing.T) {
		before := time.Now()
		tokenString, err := service.Generate(identity)
		after := time.Now()

		assert.NoError(t, err)

		token, err := jwt.ParseWithClaims(tokenString, &gatherly.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})

		assert.NoError(t, err)
		claims := token.Claims.(*gatherly.JWTClaims)

		expiry := claims.RegisteredClaims.ExpiresAt.Time
		assert.True(t, expiry.After(before.Add(24*time.Hour-time.Second)))
		assert.True(t, expiry.Before(after.Add(24*time.Hour+time.Second)))
	})

	t.Run("re-issuance verifies but is never byte identical", func(t *testing.T) {
		first, err := service.Generate(identity)
		assert.NoError(t, err)

		second, err := service.Generate(identity)
		assert.NoError(t, err)

		assert.NotEqual(t, first, second)

		_, err = service.Validate(first)
		assert.NoError(t, err)

		_, err = service.Validate(second)
		assert.NoError(t, err)
	})

	t.Run("rejects nil identity", func(t *testing.T) {
		_, err := service.Generate(nil)
		assert.Error(t, err)
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	audience := jwt.ClaimStrings{"test-audience"}

	service := gatherly.NewTokenService(signingKey, 24, "test-issuer", audience, nil)

	identity := TestIdentity{Name: "ada", Display: "Ada Lovelace"}

	t.Run("round trips a generated token", func(t *testing.T) {
		tokenString, err := service.Generate(identity)
		assert.NoError(t, err)

		claims, err := service.Validate(tokenString)

		assert.NoError(t, err)
		assert.Equal(t, "ada", claims.Subject())
		assert.Equal(t, "Ada Lovelace", claims.DisplayName())
		assert.True(t, claims.Expires().After(time.Now()))
	})

	t.Run("rejects a garbage token as malformed", func(t *testing.T) {
		_, err := service.Validate("not.a.token")

		assert.Error(t, err)
		assert.True(t, gatherly.IsMalformedError(err))
	})

	t.Run("rejects a token signed with a different key", func(t *testing.T) {
		other := gatherly.NewTokenService([]byte("other-key"), 24, "test-issuer", audience, nil)

		tokenString, err := other.Generate(identity)
		assert.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := gatherly.NewTokenService(signingKey, -1, "test-issuer", audience, nil)

		tokenString, err := expired.Generate(identity)
		assert.NoError(t, err)

		_, err = service.Validate(tokenString)

		assert.Error(t, err)
		assert.True(t, gatherly.IsTokenExpiredError(err))
	})

	t.Run("rejects a token with the wrong issuer", func(t *testing.T) {
		other := gatherly.NewTokenService(signingKey, 24, "other-issuer", audience, nil)

		tokenString, err := other.Generate(identity)
		assert.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})
}

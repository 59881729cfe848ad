package gatherly_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	gatherly "github.com/goliatone/go-gatherly"
	"github.com/stretchr/testify/assert"
)

func TestTokenValidatorFunc(t *testing.T) {
	t.Run("adapts a function", func(t *testing.T) {
		called := false
		v := gatherly.TokenValidatorFunc(func(tokenString string) (gatherly.AuthClaims, error) {
			called = true
			return &gatherly.JWTClaims{}, nil
		})

		_, err := v.Validate("token")

		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("nil func fails", func(t *testing.T) {
		var v gatherly.TokenValidatorFunc

		_, err := v.Validate("token")

		assert.Error(t, err)
	})
}

func TestMultiTokenValidator(t *testing.T) {
	audience := jwt.ClaimStrings{"test-audience"}
	identity := TestIdentity{Name: "ada", Display: "Ada Lovelace"}

	primary := gatherly.NewTokenService([]byte("primary-key"), 24, "test-issuer", audience, nil)
	secondary := gatherly.NewTokenService([]byte("secondary-key"), 24, "test-issuer", audience, nil)

	multi := gatherly.NewMultiTokenValidator(primary, secondary, nil)

	t.Run("first validator wins", func(t *testing.T) {
		token, err := primary.Generate(identity)
		assert.NoError(t, err)

		claims, err := multi.Validate(token)

		assert.NoError(t, err)
		assert.Equal(t, "ada", claims.Subject())
	})

	t.Run("falls through to the next validator", func(t *testing.T) {
		token, err := secondary.Generate(identity)
		assert.NoError(t, err)

		claims, err := multi.Validate(token)

		assert.NoError(t, err)
		assert.Equal(t, "ada", claims.Subject())
	})

	t.Run("all validators rejecting fails", func(t *testing.T) {
		_, err := multi.Validate("not.a.token")

		assert.Error(t, err)
		assert.True(t, gatherly.IsMalformedError(err))
	})

	t.Run("empty validator set fails", func(t *testing.T) {
		empty := gatherly.NewMultiTokenValidator()

		_, err := empty.Validate("anything")

		assert.Error(t, err)
	})
}

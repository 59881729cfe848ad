package gatherly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityFromUser(t *testing.T) {
	t.Run("maps the user record", func(t *testing.T) {
		identity, err := identityFromUser(&User{
			Username:       "ada",
			DisplayName:    "Ada Lovelace",
			ProfilePicture: "ada.png",
			PasswordHash:   "hash",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ada", identity.Username())
		assert.Equal(t, "Ada Lovelace", identity.DisplayName())
		assert.Equal(t, "ada.png", identity.ImageURL())
	})

	t.Run("nil user yields identity not found", func(t *testing.T) {
		_, err := identityFromUser(nil)
		assert.Equal(t, ErrIdentityNotFound, err)
	})
}

func TestUserStore_VerifyPassword(t *testing.T) {
	hash, err := HashPassword("Pa$sword1")
	assert.NoError(t, err)

	store := NewUserStore(nil)

	identity, err := identityFromUser(&User{
		Username:     "ada",
		PasswordHash: hash,
	})
	assert.NoError(t, err)

	t.Run("matching password verifies", func(t *testing.T) {
		assert.NoError(t, store.VerifyPassword(context.Background(), identity, "Pa$sword1"))
	})

	t.Run("wrong password fails as unauthorized", func(t *testing.T) {
		err := store.VerifyPassword(context.Background(), identity, "wrong")

		assert.Error(t, err)
		assert.True(t, IsUnauthorizedError(err))
	})

	t.Run("foreign identity types are rejected", func(t *testing.T) {
		err := store.VerifyPassword(context.Background(), foreignIdentity{}, "Pa$sword1")

		assert.Error(t, err)
		assert.False(t, IsUnauthorizedError(err))
	})

	t.Run("cancelled context aborts verification", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, store.VerifyPassword(ctx, identity, "Pa$sword1"))
	})
}

func TestGetUsername(t *testing.T) {
	t.Run("explicit username wins", func(t *testing.T) {
		assert.Equal(t, "ada", getUsername("ada", "countess@example.com"))
	})

	t.Run("falls back to the email local part", func(t *testing.T) {
		assert.Equal(t, "countess", getUsername("", "countess@example.com"))
	})

	t.Run("empty when neither is usable", func(t *testing.T) {
		assert.Equal(t, "", getUsername("", "not-an-email"))
	})
}

type foreignIdentity struct{}

func (foreignIdentity) Username() string    { return "x" }
func (foreignIdentity) DisplayName() string { return "x" }
func (foreignIdentity) ImageURL() string    { return "" }

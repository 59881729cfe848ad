package gatherly_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	gatherly "github.com/goliatone/go-gatherly"
	"github.com/stretchr/testify/assert"
)

func TestPasswordRules(t *testing.T) {
	check := func(password string) error {
		return validation.Validate(password, gatherly.PasswordRules()...)
	}

	t.Run("accepts a complex password", func(t *testing.T) {
		assert.NoError(t, check("Pa$sword1"))
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		assert.Error(t, check(""))
	})

	t.Run("rejects a short password", func(t *testing.T) {
		err := check("Pa$s1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 6 characters")
	})

	t.Run("rejects a password without an uppercase character", func(t *testing.T) {
		err := check("pa$sword1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "1 uppercase character")
	})

	t.Run("rejects a password without a lowercase character", func(t *testing.T) {
		err := check("PA$SWORD1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "1 lowercase character")
	})

	t.Run("rejects a fully alphanumeric password", func(t *testing.T) {
		err := check("Password1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "non alphanumeric character")
	})
}

func TestValidPhoneNumber(t *testing.T) {
	rule := validation.By(gatherly.ValidPhoneNumber("US"))

	t.Run("empty value passes, the field is optional", func(t *testing.T) {
		assert.NoError(t, validation.Validate("", rule))
	})

	t.Run("valid US number passes", func(t *testing.T) {
		assert.NoError(t, validation.Validate("+1 650-253-0000", rule))
	})

	t.Run("garbage number fails", func(t *testing.T) {
		assert.Error(t, validation.Validate("123", rule))
	})
}

func TestRegisterUserMessage_Validate(t *testing.T) {
	valid := gatherly.RegisterUserMessage{
		DisplayName: "Ada Lovelace",
		Username:    "ada",
		Email:       "ada@example.com",
		Password:    "Pa$sword1",
	}

	t.Run("valid payload passes", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("weak password names the password field", func(t *testing.T) {
		msg := valid
		msg.Password = "password"

		err := msg.Validate()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("missing display name fails", func(t *testing.T) {
		msg := valid
		msg.DisplayName = ""

		assert.Error(t, msg.Validate())
	})

	t.Run("malformed email fails", func(t *testing.T) {
		msg := valid
		msg.Email = "nope"

		assert.Error(t, msg.Validate())
	})
}

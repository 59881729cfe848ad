package gatherly

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

var (
	upperCharRe   = regexp.MustCompile(`[A-Z]`)
	lowerCharRe   = regexp.MustCompile(`[a-z]`)
	nonAlphaNumRe = regexp.MustCompile(`[^_a-zA-Z0-9]`)
	defaultRegion = "US"
)

// PasswordRules is the rule set shared by every payload that accepts a new
// password.
func PasswordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(6, 100).Error("Password must be at least 6 characters"),
		validation.Match(upperCharRe).Error("Password must contain 1 uppercase character"),
		validation.Match(lowerCharRe).Error("Password must have at least 1 lowercase character"),
		validation.Match(nonAlphaNumRe).Error("Password must contain one non alphanumeric character"),
	}
}

// ValidPhoneNumber validates an optional phone number field against the
// given default region.
func ValidPhoneNumber(region string) validation.RuleFunc {
	if region == "" {
		region = defaultRegion
	}
	return func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}

		num, err := phonenumbers.Parse(s, region)
		if err != nil {
			return errors.New("must be a valid phone number")
		}

		if !phonenumbers.IsValidNumber(num) {
			return errors.New("must be a valid phone number")
		}

		return nil
	}
}

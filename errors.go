package gatherly

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrUnauthorized is returned for every failed credential check. Lookup
// misses and password mismatches share this value so responses cannot be
// used to enumerate accounts.
var ErrUnauthorized = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNAUTHORIZED")

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword is returned when a password does not match
// the stored hash
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("PASSWORD_MISMATCH")

// ErrTokenExpired is returned for structurally valid tokens past their expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed is returned for tokens that cannot be parsed or verified
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrNoEmptyString rejects empty input where a value is required
var ErrNoEmptyString = errors.New("value must be a non empty string", errors.CategoryBadInput)

// ErrUnableToFindSession is the error when a request carries no principal
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("SESSION_NOT_FOUND")

// ErrUnableToDecodeSession unable to decode claims from a token
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("SESSION_DECODE")

// IsUnauthorizedError reports whether err maps to a 401 for the caller
func IsUnauthorizedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth
	}

	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

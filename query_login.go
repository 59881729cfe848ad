package gatherly

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// LoginQuery carries the credentials for a password login. Instances are
// transient: built per request, never persisted, never logged.
type LoginQuery struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (q LoginQuery) Type() string { return "auth.login" }

// Validate will run validation rules
func (q LoginQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(
			&q.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&q.Password,
			validation.Required,
		),
	)
}

// LoginHandler authenticates credentials and issues a session token.
type LoginHandler struct {
	store  CredentialStore
	tokens TokenService
	logger Logger
}

func NewLoginHandler(store CredentialStore, tokens TokenService) *LoginHandler {
	return &LoginHandler{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *LoginHandler) WithLogger(l Logger) *LoginHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

// Execute runs the login sequence: lookup, verify, issue. A missing
// identity and a wrong password produce the same failure so responses
// cannot be used to probe which emails exist.
func (h *LoginHandler) Execute(ctx context.Context, q LoginQuery) (*AuthenticatedUser, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during login")
	default:
	}

	identity, err := h.store.FindByEmail(ctx, q.Email)
	if err != nil {
		if IsUnauthorizedError(err) {
			h.logger.Debug("login lookup miss")
			return nil, ErrUnauthorized
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "credential store lookup failed")
	}

	if err := h.store.VerifyPassword(ctx, identity, q.Password); err != nil {
		if IsUnauthorizedError(err) {
			h.logger.Debug("login password mismatch")
			return nil, ErrUnauthorized
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "password verification failed")
	}

	token, err := h.tokens.Generate(identity)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue token")
	}

	return &AuthenticatedUser{
		DisplayName: identity.DisplayName(),
		Username:    identity.Username(),
		Token:       token,
		Image:       identity.ImageURL(),
	}, nil
}

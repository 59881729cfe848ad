package gatherly

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// CurrentUserQuery resolves the identity of the already authenticated
// caller. It carries no fields: the principal comes from the request
// context.
type CurrentUserQuery struct{}

func (q CurrentUserQuery) Type() string { return "auth.current_user" }

// CurrentUserHandler reloads the caller's identity and issues a fresh
// token. Every call refreshes the token; there is no expiry check here,
// the middleware already validated the presented token.
type CurrentUserHandler struct {
	store     CredentialStore
	tokens    TokenService
	principal CurrentUserAccessor
	logger    Logger
}

func NewCurrentUserHandler(store CredentialStore, tokens TokenService, principal CurrentUserAccessor) *CurrentUserHandler {
	return &CurrentUserHandler{
		store:     store,
		tokens:    tokens,
		principal: principal,
		logger:    defLogger{},
	}
}

func (h *CurrentUserHandler) WithLogger(l Logger) *CurrentUserHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *CurrentUserHandler) Execute(ctx context.Context, q CurrentUserQuery) (*AuthenticatedUser, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during current user lookup")
	default:
	}

	username, err := h.principal.CurrentUsername(ctx)
	if err != nil {
		h.logger.Debug("current user has no principal", "error", err)
		return nil, ErrUnauthorized
	}

	identity, err := h.store.FindByUsername(ctx, username)
	if err != nil {
		// A validated token naming an unknown user is a server side
		// inconsistency, not a normal failure path. Log the detail,
		// surface a generic error.
		h.logger.Error("current user lookup failed for validated principal", "username", username, "error", err)
		return nil, goerrors.New("failed to load authenticated user", goerrors.CategoryInternal)
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

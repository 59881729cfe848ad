package gatherly

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a new account registration.
type RegisterUserMessage struct {
	DisplayName string `json:"displayName" form:"display_name"`
	Username    string `json:"username" form:"username"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone,omitempty" form:"phone_number"`
	Password    string `json:"password" form:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will validate the payload
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Username, validation.Length(3, 100)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Phone, validation.By(ValidPhoneNumber(""))),
		validation.Field(&e.Password, PasswordRules()...),
	)
}

// RegisterUserHandler creates the account and issues a first session token,
// so registration doubles as login.
type RegisterUserHandler struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewRegisterUserHandler(repo RepositoryManager, tokens TokenService) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(l Logger) *RegisterUserHandler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*AuthenticatedUser, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*AuthenticatedUser, error) {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Phone = event.Phone
		user.DisplayName = event.DisplayName
		user.Username = getUsername(event.Username, event.Email)

		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	identity, err := identityFromUser(user)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "registration produced no identity")
	}

	token, err := h.tokens.Generate(identity)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue token")
	}

	return &AuthenticatedUser{
		DisplayName: user.DisplayName,
		Username:    user.Username,
		Token:       token,
		Image:       user.ProfilePicture,
	}, nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

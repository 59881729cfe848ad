package gatherly

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore implements CredentialStore on top of the users repository.
type UserStore struct {
	users  Users
	logger Logger
}

// NewUserStore will create a new UserStore
func NewUserStore(users Users) *UserStore {
	return &UserStore{
		users:  users,
		logger: defLogger{},
	}
}

func (s *UserStore) WithLogger(l Logger) *UserStore {
	if l != nil {
		s.logger = l
	}
	return s
}

// FindByEmail returns the identity registered under the given email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by email")
	}

	return identityFromUser(user)
}

// FindByUsername returns the identity registered under the given username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by username")
	}

	return identityFromUser(user)
}

// VerifyPassword checks the cleartext password against the identity's
// stored credential. Only identities produced by this store carry the hash.
func (s *UserStore) VerifyPassword(ctx context.Context, identity Identity, password string) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled during password verification")
	default:
	}

	aid, ok := identity.(authIdentity)
	if !ok {
		return errors.New("identity was not produced by this store", errors.CategoryInternal)
	}

	return ComparePasswordAndHash(password, aid.passwordHash)
}

var _ CredentialStore = (*UserStore)(nil)

type authIdentity struct {
	username     string
	displayName  string
	imageURL     string
	passwordHash string
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) DisplayName() string {
	return a.displayName
}

func (a authIdentity) ImageURL() string {
	return a.imageURL
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) (Identity, error) {
	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return authIdentity{
		username:     user.Username,
		displayName:  user.DisplayName,
		imageURL:     user.ProfilePicture,
		passwordHash: user.PasswordHash,
	}, nil
}

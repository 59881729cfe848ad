package client

import (
	"context"
	"sync"
)

// Session is an immutable snapshot of the authenticated state. CurrentUser
// and Token are always set or cleared together.
type Session struct {
	CurrentUser *AuthenticatedUser
	Token       string
}

// Authenticated reports whether the snapshot carries an identity.
func (s Session) Authenticated() bool {
	return s.CurrentUser != nil
}

// Subscriber receives the committed session after every mutation. It runs
// under the store lock and must not call back into the store.
type Subscriber func(Session)

// SessionStore owns the client's authenticated state. Mutations commit the
// user and token in one step under the store lock, then notify subscribers
// synchronously, so no observer ever sees the token without the user or
// the other way round.
type SessionStore struct {
	mu          sync.Mutex
	session     Session
	storage     TokenStorage
	api         *API
	subscribers map[int]Subscriber
	nextSubID   int
}

func NewSessionStore(api *API, storage TokenStorage) *SessionStore {
	return &SessionStore{
		api:         api,
		storage:     storage,
		subscribers: map[int]Subscriber{},
	}
}

// Subscribe registers fn for synchronous notification after every commit.
// The returned function removes the subscription.
func (s *SessionStore) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Session returns the current snapshot.
func (s *SessionStore) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Login exchanges credentials for a session. On failure the store is left
// unchanged and the error surfaces to the caller, except Unauthorized,
// which also clears any pre-existing session.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	user, err := s.api.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		s.clearOnUnauthorized(err)
		return err
	}

	return s.commit(Session{CurrentUser: user, Token: user.Token}, true)
}

// Register creates an account and starts its session, mirroring Login.
func (s *SessionStore) Register(ctx context.Context, req RegisterRequest) error {
	user, err := s.api.Register(ctx, req)
	if err != nil {
		s.clearOnUnauthorized(err)
		return err
	}

	return s.commit(Session{CurrentUser: user, Token: user.Token}, true)
}

// Logout clears the session and the persisted token.
func (s *SessionStore) Logout() error {
	return s.commit(Session{}, true)
}

// GetCurrentUser rehydrates the session after a restart: when a persisted
// token exists but no user is loaded, it asks the server for the current
// principal. With a live session or no token it is a no-op. An Unauthorized
// response clears any stale persisted token.
func (s *SessionStore) GetCurrentUser(ctx context.Context) error {
	s.mu.Lock()
	if s.session.CurrentUser != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	token, err := s.storage.Load()
	if err != nil {
		return err
	}

	if token == "" {
		return nil
	}

	user, err := s.api.CurrentUser(ctx, token)
	if err != nil {
		s.clearOnUnauthorized(err)
		return err
	}

	return s.commit(Session{CurrentUser: user, Token: user.Token}, true)
}

// clearOnUnauthorized drops any stale session when the server rejected the
// caller's credentials or token.
func (s *SessionStore) clearOnUnauthorized(err error) {
	if IsUnauthorized(err) {
		s.commit(Session{}, true)
	}
}

// commit swaps the session and notifies subscribers while holding the
// lock. Persisting runs inside the same step so the durable token never
// disagrees with the in-memory one.
func (s *SessionStore) commit(next Session, persist bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var perr error
	if persist && s.storage != nil {
		if next.Token == "" {
			perr = s.storage.Clear()
		} else {
			perr = s.storage.Save(next.Token)
		}
	}

	s.session = next

	for _, fn := range s.subscribers {
		fn(next)
	}

	return perr
}

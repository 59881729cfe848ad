package client

// AuthFlag is a store derived from the session: it exposes whether a user
// is authenticated and who they are. It re-derives inside the session
// store's commit, so it can never lag behind the session it observes. It
// never mutates the session itself.
type AuthFlag struct {
	authenticated bool
	username      string
	unsubscribe   func()
}

// NewAuthFlag derives the flag from store and starts tracking it.
func NewAuthFlag(store *SessionStore) *AuthFlag {
	f := &AuthFlag{}
	f.apply(store.Session())
	f.unsubscribe = store.Subscribe(f.apply)
	return f
}

func (f *AuthFlag) apply(s Session) {
	f.authenticated = s.Authenticated()
	if s.CurrentUser != nil {
		f.username = s.CurrentUser.Username
	} else {
		f.username = ""
	}
}

// IsAuthenticated reports whether the observed session has an identity.
func (f *AuthFlag) IsAuthenticated() bool {
	return f.authenticated
}

// Username returns the observed identity's username, empty when logged out.
func (f *AuthFlag) Username() string {
	return f.username
}

// Close stops tracking the session store.
func (f *AuthFlag) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

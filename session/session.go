// Package session holds the client's authentication state: the access and
// refresh tokens issued by the journal backend, the logged-in user, and a
// durable mirror of all three so a restart picks up where the last run left
// off.
package session

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// User is the identity record returned by the login endpoint.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credentials groups the fields mirrored to durable storage.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Persister mirrors credentials to durable storage. Implementations must
// tolerate Clear on an empty store.
type Persister interface {
	Save(Credentials) error
	SaveAccessToken(token string) error
	Load() (Credentials, error)
	Clear() error
	Close() error
}

// Store is the single source of truth for auth state. It is constructed
// explicitly and handed to the API client and command guard; there is no
// package-level instance.
type Store struct {
	mu         sync.RWMutex
	creds      Credentials
	authLoaded bool

	persist Persister
	log     *logrus.Entry
}

// NewStore rehydrates state from the persister. A stored access token seeds
// IsAuthenticated before any round trip validates it; AuthLoaded stays false
// until the first successful login of this process.
func NewStore(p Persister) *Store {
	s := &Store{
		persist: p,
		log:     logrus.WithField("component", "session"),
	}

	creds, err := p.Load()
	if err != nil {
		s.log.WithError(err).Warn("could not load stored session")
		return s
	}
	s.creds = creds
	return s
}

// LoginSuccess replaces the whole session with freshly issued credentials.
// It is a pure state transition: a persistence failure is logged and the
// in-memory session still moves to authenticated.
func (s *Store) LoginSuccess(access, refresh string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = Credentials{AccessToken: access, RefreshToken: refresh, User: user}
	s.authLoaded = true

	if err := s.persist.Save(s.creds); err != nil {
		s.log.WithError(err).Warn("could not persist session")
	}
	s.log.Debug("session established")
}

// Logout clears every field and removes the durable entries. Calling it on
// an already logged-out session is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = Credentials{}
	s.authLoaded = false

	if err := s.persist.Clear(); err != nil {
		s.log.WithError(err).Warn("could not clear stored session")
	}
	s.log.Debug("session cleared")
}

// RefreshTokenSuccess replaces the access token only. The refresh token and
// user survive; nothing but Logout removes the refresh token.
func (s *Store) RefreshTokenSuccess(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds.AccessToken = access

	if err := s.persist.SaveAccessToken(access); err != nil {
		s.log.WithError(err).Warn("could not persist refreshed token")
	}
	s.log.Debug("access token refreshed")
}

// SetAuthLoaded marks whether the session has completed its initial
// resolution, distinguishing "not yet determined" from "determined, logged
// out".
func (s *Store) SetAuthLoaded(loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authLoaded = loaded
}

// AccessToken returns the current bearer token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken
}

// RefreshToken returns the current refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.RefreshToken
}

// User returns the logged-in user, or nil.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.User
}

// IsAuthenticated is true iff an access token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken != ""
}

// AuthLoaded reports whether initial session resolution has completed.
func (s *Store) AuthLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authLoaded
}

// Close releases the underlying persister.
func (s *Store) Close() error {
	return s.persist.Close()
}

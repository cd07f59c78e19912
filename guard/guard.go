// Package guard gates commands that need an authenticated session,
// redirecting the user to the login entry point when there is none.
package guard

import (
	"errors"
	"fmt"

	"github.com/tradelog/tradelog/session"
)

// ErrLoginRequired is returned when a protected command runs without an
// authenticated session.
var ErrLoginRequired = errors.New("not logged in")

// Guard evaluates the session on every invocation, so a forced logout during
// one command blocks the next one.
type Guard struct {
	sessions  *session.Store
	loginHint string
}

// New builds a guard over the given session store. loginHint names the login
// entry point shown to the user (for example "tradelog login").
func New(sessions *session.Store, loginHint string) *Guard {
	return &Guard{sessions: sessions, loginHint: loginHint}
}

// Require returns nil when the session is authenticated, and an
// ErrLoginRequired wrapper pointing at the login entry point otherwise.
func (g *Guard) Require() error {
	if g.sessions.IsAuthenticated() {
		return nil
	}
	if g.loginHint != "" {
		return fmt.Errorf("%w: run %q first", ErrLoginRequired, g.loginHint)
	}
	return ErrLoginRequired
}

// Authenticated reports the current session state without failing.
func (g *Guard) Authenticated() bool {
	return g.sessions.IsAuthenticated()
}

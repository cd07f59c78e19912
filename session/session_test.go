package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreStartsEmpty(t *testing.T) {
	t.Parallel()

	s := NewStore(NewMemory())

	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.AuthLoaded())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
	assert.Nil(t, s.User())
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	p := NewMemory()
	s := NewStore(p)

	s.LoginSuccess("A1", "R1", &User{ID: 7, Username: "dana", Email: "dana@example.com"})

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.AuthLoaded())
	assert.Equal(t, "A1", s.AccessToken())
	assert.Equal(t, "R1", s.RefreshToken())
	assert.Equal(t, int64(7), s.User().ID)

	creds, err := p.Load()
	assert.NoError(t, err)
	assert.Equal(t, "A1", creds.AccessToken)
	assert.Equal(t, "R1", creds.RefreshToken)
}

func TestRefreshReplacesAccessTokenOnly(t *testing.T) {
	t.Parallel()

	p := NewMemory()
	s := NewStore(p)
	s.LoginSuccess("A1", "R1", &User{ID: 7})

	s.RefreshTokenSuccess("A2")

	assert.Equal(t, "A2", s.AccessToken())
	assert.Equal(t, "R1", s.RefreshToken())
	assert.Equal(t, int64(7), s.User().ID)
	assert.True(t, s.AuthLoaded())

	creds, err := p.Load()
	assert.NoError(t, err)
	assert.Equal(t, "A2", creds.AccessToken)
	assert.Equal(t, "R1", creds.RefreshToken)
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	p := NewMemory()
	s := NewStore(p)
	s.LoginSuccess("A1", "R1", &User{ID: 7})

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.AuthLoaded())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.RefreshToken())
	assert.Nil(t, s.User())

	creds, err := p.Load()
	assert.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	p := NewMemory()
	s := NewStore(p)
	s.LoginSuccess("A1", "R1", &User{ID: 7})

	s.Logout()
	s.Logout()

	assert.False(t, s.IsAuthenticated())
	creds, err := p.Load()
	assert.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
}

func TestLoginAfterLogout(t *testing.T) {
	t.Parallel()

	s := NewStore(NewMemory())
	s.LoginSuccess("A1", "R1", &User{ID: 7})
	s.Logout()

	s.LoginSuccess("A2", "R2", &User{ID: 7})

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "A2", s.AccessToken())
	assert.Equal(t, "R2", s.RefreshToken())
}

func TestSetAuthLoaded(t *testing.T) {
	t.Parallel()

	s := NewStore(NewMemory())

	s.SetAuthLoaded(true)
	assert.True(t, s.AuthLoaded())

	s.SetAuthLoaded(false)
	assert.False(t, s.AuthLoaded())
}

func TestRehydrationSeedsAuthenticated(t *testing.T) {
	t.Parallel()

	p := NewMemory()
	assert.NoError(t, p.Save(Credentials{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &User{ID: 7},
	}))

	s := NewStore(p)

	// Presence of a stored token is trusted before any validation round
	// trip; AuthLoaded stays false until a login completes.
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.AuthLoaded())
	assert.Equal(t, "R1", s.RefreshToken())
	assert.Equal(t, int64(7), s.User().ID)
}

package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBolt(t *testing.T) (*BoltPersister, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.db")
	p, err := NewBolt(path)
	require.NoError(t, err)

	return p, path
}

func TestBoltSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	p, path := newTestBolt(t)

	creds := Credentials{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &User{ID: 7, Username: "dana", Email: "dana@example.com"},
	}
	assert.NoError(t, p.Save(creds))
	assert.NoError(t, p.Close())

	// Reopen to prove the entries are durable.
	p2, err := NewBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p2.Close() })

	got, err := p2.Load()
	assert.NoError(t, err)
	assert.Equal(t, "A1", got.AccessToken)
	assert.Equal(t, "R1", got.RefreshToken)
	require.NotNil(t, got.User)
	assert.Equal(t, "dana", got.User.Username)
}

func TestBoltSaveAccessTokenLeavesRest(t *testing.T) {
	t.Parallel()

	p, _ := newTestBolt(t)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Save(Credentials{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &User{ID: 7},
	}))

	assert.NoError(t, p.SaveAccessToken("A2"))

	got, err := p.Load()
	assert.NoError(t, err)
	assert.Equal(t, "A2", got.AccessToken)
	assert.Equal(t, "R1", got.RefreshToken)
	require.NotNil(t, got.User)
	assert.Equal(t, int64(7), got.User.ID)
}

func TestBoltClearLeavesNoCredentials(t *testing.T) {
	t.Parallel()

	p, path := newTestBolt(t)

	require.NoError(t, p.Save(Credentials{AccessToken: "A1", RefreshToken: "R1", User: &User{ID: 7}}))
	assert.NoError(t, p.Clear())
	assert.NoError(t, p.Close())

	p2, err := NewBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p2.Close() })

	got, err := p2.Load()
	assert.NoError(t, err)
	assert.Equal(t, Credentials{}, got)
}

func TestBoltLoadFromEmptyStore(t *testing.T) {
	t.Parallel()

	p, _ := newTestBolt(t)
	t.Cleanup(func() { _ = p.Close() })

	got, err := p.Load()
	assert.NoError(t, err)
	assert.Equal(t, Credentials{}, got)

	// Clearing an empty store is fine.
	assert.NoError(t, p.Clear())
}

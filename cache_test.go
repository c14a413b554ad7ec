package hostedauth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	s := NewMemoryStorage()

	_, ok := s.Get("missing")
	assert.False(ok)

	s.Set("k", "v")
	got, ok := s.Get("k")
	assert.True(ok)
	assert.Equal("v", got)

	s.Remove("k")
	_, ok = s.Get("k")
	assert.False(ok)

	// removing an absent key is not an error
	s.Remove("k")
}

func TestNewSessionCache(t *testing.T) {
	t.Parallel()
	t.Run("valid", func(t *testing.T) {
		require := require.New(t)
		c, err := NewSessionCache("client-id", NewMemoryStorage())
		require.NoError(err)
		require.NotNil(c)
	})
	t.Run("empty-client-id", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := NewSessionCache("", NewMemoryStorage())
		require.Error(err)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
	t.Run("nil-storage", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := NewSessionCache("client-id", nil)
		require.Error(err)
		assert.True(errors.Is(err, ErrNilParameter))
	})
}

func testCachedSession(t *testing.T, username string, expiresAt time.Time) *Session {
	t.Helper()
	s := NewSession()
	s.SetIDToken(Token(TestToken(t, username, expiresAt)))
	s.SetAccessToken(Token(TestToken(t, username, expiresAt)))
	s.SetRefreshToken(RefreshToken("refresh-credential"))
	s.SetScopes(ParseTokenScopes("openid profile"))
	return s
}

func TestSessionCache_RoundTrip(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	cache, err := NewSessionCache("client-id", NewMemoryStorage())
	require.NoError(err)

	saved := testCachedSession(t, "alice", time.Now().Add(time.Hour))
	username, err := cache.Save(saved)
	require.NoError(err)
	assert.Equal("alice", username)

	got := cache.Load("alice")
	assert.Equal(saved.IDToken().Raw(), got.IDToken().Raw())
	assert.Equal(saved.AccessToken().Raw(), got.AccessToken().Raw())
	assert.Equal(saved.RefreshToken().Raw(), got.RefreshToken().Raw())
	assert.True(saved.Scopes().Equal(got.Scopes()))

	last, ok := cache.LastUser()
	assert.True(ok)
	assert.Equal("alice", last)
}

func TestSessionCache_Load(t *testing.T) {
	t.Parallel()
	t.Run("unknown-user-degrades-to-empty", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		cache, err := NewSessionCache("client-id", NewMemoryStorage())
		require.NoError(err)
		got := cache.Load("nobody")
		require.NotNil(got)
		assert.False(got.IsValid())
		assert.False(got.IDToken().IsSet())
		assert.False(got.RefreshToken().Valid())
		assert.True(got.Scopes().IsEmpty())
	})
	t.Run("empty-username-degrades-to-empty", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		cache, err := NewSessionCache("client-id", NewMemoryStorage())
		require.NoError(err)
		got := cache.Load("")
		require.NotNil(got)
		assert.False(got.IsValid())
	})
}

func TestSessionCache_Save(t *testing.T) {
	t.Parallel()
	t.Run("no-subject", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		cache, err := NewSessionCache("client-id", NewMemoryStorage())
		require.NoError(err)
		s := NewSession()
		s.SetAccessToken(Token(TestTokenWithoutSubject(t, time.Now().Add(time.Hour))))
		_, err = cache.Save(s)
		require.Error(err)
		assert.True(errors.Is(err, ErrMissingSubject))
	})
	t.Run("nil-session", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		cache, err := NewSessionCache("client-id", NewMemoryStorage())
		require.NoError(err)
		_, err = cache.Save(nil)
		require.Error(err)
		assert.True(errors.Is(err, ErrNilParameter))
	})
}

func TestSessionCache_Clear(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	storage := NewMemoryStorage()
	cache, err := NewSessionCache("client-id", storage)
	require.NoError(err)

	_, err = cache.Save(testCachedSession(t, "alice", time.Now().Add(time.Hour)))
	require.NoError(err)

	bobToken := TestToken(t, "bob", time.Now().Add(time.Hour))
	bob := NewSession()
	bob.SetIDToken(Token(bobToken))
	bob.SetAccessToken(Token(bobToken))
	_, err = cache.Save(bob)
	require.NoError(err)

	cache.Clear("alice")

	// alice's entries and the last-user pointer are gone
	assert.False(cache.Load("alice").IDToken().IsSet())
	_, ok := cache.LastUser()
	assert.False(ok)

	// bob's entries are untouched
	assert.Equal(bobToken, cache.Load("bob").IDToken().Raw())

	// clearing again is idempotent
	cache.Clear("alice")
	cache.Clear("")
}

func TestSessionCache_KeyLayout(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	storage := NewMemoryStorage()
	cache, err := NewSessionCache("client-id", storage)
	require.NoError(err)

	_, err = cache.Save(testCachedSession(t, "alice", time.Now().Add(time.Hour)))
	require.NoError(err)

	for _, key := range []string{
		"Provider.client-id.LastAuthUser",
		"Provider.client-id.alice.idToken",
		"Provider.client-id.alice.accessToken",
		"Provider.client-id.alice.refreshToken",
		"Provider.client-id.alice.tokenScopesString",
	} {
		_, ok := storage.Get(key)
		assert.Truef(ok, "expected storage key %q", key)
	}
}

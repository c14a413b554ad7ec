package hostedauth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenScopes(t *testing.T) {
	t.Parallel()
	t.Run("valid", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		s, err := NewTokenScopes("openid", "profile")
		require.NoError(err)
		assert.Equal([]string{"openid", "profile"}, s.Strings())
	})
	t.Run("duplicates-collapse", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		s, err := NewTokenScopes("openid", "openid", "profile")
		require.NoError(err)
		assert.Equal([]string{"openid", "profile"}, s.Strings())
	})
	t.Run("empty-set", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		s, err := NewTokenScopes()
		require.NoError(err)
		assert.True(s.IsEmpty())
	})
	t.Run("blank-scope", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := NewTokenScopes("openid", "  ")
		require.Error(err)
		assert.True(errors.Is(err, ErrInvalidScopes))
	})
}

func TestTokenScopes_Equal(t *testing.T) {
	t.Parallel()
	t.Run("order-independent", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		a, err := NewTokenScopes("a", "b")
		require.NoError(err)
		b, err := NewTokenScopes("b", "a")
		require.NoError(err)
		assert.True(a.Equal(b))
		assert.True(b.Equal(a))
	})
	t.Run("size-sensitive", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		a, err := NewTokenScopes("a", "b")
		require.NoError(err)
		b, err := NewTokenScopes("a")
		require.NoError(err)
		assert.False(a.Equal(b))
		assert.False(b.Equal(a))
	})
	t.Run("membership-sensitive", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		a, err := NewTokenScopes("a", "b")
		require.NoError(err)
		b, err := NewTokenScopes("a", "c")
		require.NoError(err)
		assert.False(a.Equal(b))
	})
	t.Run("empty-sets-equal", func(t *testing.T) {
		assert := assert.New(t)
		assert.True(TokenScopes{}.Equal(TokenScopes{}))
	})
}

func TestParseTokenScopes(t *testing.T) {
	t.Parallel()
	t.Run("round-trip", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		s, err := NewTokenScopes("openid", "profile", "resource.read/admin")
		require.NoError(err)
		assert.True(s.Equal(ParseTokenScopes(s.String())))
	})
	t.Run("blank-degrades-to-empty", func(t *testing.T) {
		assert := assert.New(t)
		assert.True(ParseTokenScopes("   ").IsEmpty())
		assert.True(ParseTokenScopes("").IsEmpty())
	})
}

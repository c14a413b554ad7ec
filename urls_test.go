package hostedauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInURL(t *testing.T) {
	t.Parallel()
	t.Run("deterministic-parameter-order", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testConfig()
		scopes, err := NewTokenScopes("openid", "profile")
		require.NoError(err)
		got := signInURL(&c, scopes, "statestatestatestatestatestatest", "", "")
		assert.Equal("https://auth.example.com/oauth2/authorize"+
			"?redirect_uri=https%3A%2F%2Fapp.example.com%2Fcallback"+
			"&response_type=code"+
			"&client_id=client-id"+
			"&state=statestatestatestatestatestatest"+
			"&scope=openid%20profile", got)
	})
	t.Run("identity-provider-appended", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testConfig()
		scopes, err := NewTokenScopes("openid")
		require.NoError(err)
		got := signInURL(&c, scopes, "st", "AcmeSAML", "")
		assert.Contains(got, "&scope=openid&identity_provider=AcmeSAML")
	})
	t.Run("context-data-appended-last", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testConfig()
		scopes, err := NewTokenScopes("openid")
		require.NoError(err)
		got := signInURL(&c, scopes, "st", "AcmeSAML", "opaque payload")
		assert.Contains(got, "&identity_provider=AcmeSAML&userContextData=opaque%20payload")
	})
	t.Run("state-is-encoded", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testConfig()
		scopes, err := NewTokenScopes("openid")
		require.NoError(err)
		got := signInURL(&c, scopes, "host supplied&state", "", "")
		assert.Contains(got, "&state=host%20supplied%26state&scope=")
	})
	t.Run("implicit-response-type", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c := testConfig()
		c.ResponseType = ResponseTypeToken
		scopes, err := NewTokenScopes("openid")
		require.NoError(err)
		got := signInURL(&c, scopes, "st", "", "")
		assert.Contains(got, "&response_type=token&")
	})
}

func TestSignOutURL(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	c := testConfig()
	got := signOutURL(&c)
	assert.Equal("https://auth.example.com/oauth2/idpresponse"+
		"?redirect_uri=https%3A%2F%2Fapp.example.com%2Fsigned-out"+
		"&client_id=client-id", got)
}

func TestTokenURL(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	c := testConfig()
	assert.Equal("https://auth.example.com/oauth2/token", tokenURL(&c))
}

func TestURIEncode(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.Equal("openid%20profile", uriEncode("openid profile"))
	assert.Equal("https%3A%2F%2Fapp.example.com%2Fcb%3Fa%3Db", uriEncode("https://app.example.com/cb?a=b"))
}

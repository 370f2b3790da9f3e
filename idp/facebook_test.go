package idp_test

import (
	"net/url"
	"testing"

	"github.com/dignahq/go-digna-client/idp"
	"github.com/stretchr/testify/require"
)

func TestNewFacebookProvider(t *testing.T) {
	t.Run("requires a client ID", func(t *testing.T) {
		_, err := idp.NewFacebookProvider("", "secret", "http://127.0.0.1:53682/callback")
		require.Error(t, err)
	})

	t.Run("name", func(t *testing.T) {
		provider, err := idp.NewFacebookProvider("fb-client", "secret", "http://127.0.0.1:53682/callback")
		require.NoError(t, err)
		require.Equal(t, "facebook", provider.Name())
	})
}

func TestFacebookProvider_AuthURL(t *testing.T) {
	provider, err := idp.NewFacebookProvider("fb-client", "secret", "http://127.0.0.1:53682/callback")
	require.NoError(t, err)

	rawURL := provider.AuthURL("state-123", "verifier-verifier-verifier-verifier-verifier")
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	require.Equal(t, "www.facebook.com", parsed.Host)

	query := parsed.Query()
	require.Equal(t, "fb-client", query.Get("client_id"))
	require.Equal(t, "state-123", query.Get("state"))
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "http://127.0.0.1:53682/callback", query.Get("redirect_uri"))
	require.Equal(t, "public_profile email", query.Get("scope"))
	require.Equal(t, "S256", query.Get("code_challenge_method"))
	require.NotEmpty(t, query.Get("code_challenge"))
}

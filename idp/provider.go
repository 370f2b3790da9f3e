// Package idp drives native social sign-in: the client obtains a provider
// token itself through an authorization-code flow with a loopback redirect,
// then hands it to the backend's /auth/social-login exchange. This is the
// alternative to the backend-hosted OAuth dance used by the web client.
package idp

import "context"

// ProviderToken is what a provider flow yields. Google produces a verified ID
// token; Facebook produces only an access token.
type ProviderToken struct {
	IDToken     string
	AccessToken string
}

// Provider is one social identity provider.
type Provider interface {
	Name() string
	// AuthURL builds the browser entry point for the flow. state guards
	// against cross-flow injection and verifier is the PKCE secret.
	AuthURL(state, verifier string) string
	// Exchange trades the authorization code for the provider token.
	Exchange(ctx context.Context, code, verifier string) (ProviderToken, error)
}

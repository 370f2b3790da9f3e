package idp

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

var _ Provider = (*GoogleProvider)(nil)

// GoogleProvider runs the Google authorization-code flow and verifies the
// resulting ID token against Google's published keys before handing it on.
type GoogleProvider struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleProvider, error) {
	if clientID == "" {
		return nil, errors.New("[NewGoogleProvider] clientID is required")
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewGoogleProvider] oidc.NewProvider")
	}

	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			Endpoint:     provider.Endpoint(),
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) AuthURL(state, verifier string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades the code for tokens and verifies the ID token's signature
// and claims. An unverifiable ID token is never forwarded to the backend.
func (p *GoogleProvider) Exchange(ctx context.Context, code, verifier string) (ProviderToken, error) {
	token, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return ProviderToken{}, errors.Wrap(err, "[GoogleProvider.Exchange] config.Exchange")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return ProviderToken{}, errors.New("[GoogleProvider.Exchange] no ID token in response")
	}
	if _, err := p.verifier.Verify(ctx, rawIDToken); err != nil {
		return ProviderToken{}, errors.Wrap(err, "[GoogleProvider.Exchange] ID token verification failed")
	}

	return ProviderToken{
		IDToken:     rawIDToken,
		AccessToken: token.AccessToken,
	}, nil
}

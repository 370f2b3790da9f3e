package idp

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

var _ Provider = (*FacebookProvider)(nil)

// FacebookProvider runs the Facebook authorization-code flow. Facebook issues
// no ID token; the backend validates the access token with the Graph API.
type FacebookProvider struct {
	config oauth2.Config
}

func NewFacebookProvider(clientID, clientSecret, redirectURL string) (*FacebookProvider, error) {
	if clientID == "" {
		return nil, errors.New("[NewFacebookProvider] clientID is required")
	}
	return &FacebookProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"public_profile", "email"},
			Endpoint:     facebook.Endpoint,
		},
	}, nil
}

func (p *FacebookProvider) Name() string {
	return "facebook"
}

func (p *FacebookProvider) AuthURL(state, verifier string) string {
	return p.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (p *FacebookProvider) Exchange(ctx context.Context, code, verifier string) (ProviderToken, error) {
	token, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return ProviderToken{}, errors.Wrap(err, "[FacebookProvider.Exchange] config.Exchange")
	}
	return ProviderToken{AccessToken: token.AccessToken}, nil
}

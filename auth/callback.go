package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/dignahq/go-digna-client/api"
	"github.com/dignahq/go-digna-client/users"
)

// CallbackParams are parsed once from the provider redirect URL and discarded
// after the exchange completes or fails.
type CallbackParams struct {
	Token            string
	Provider         string
	Error            string
	ErrorDescription string
}

// ParseCallbackParams extracts the callback parameters from a redirect URL.
// Parameters may arrive in the query string, in the fragment route's query
// string, or both; fragment values win because the fragment is what the
// router actually sees. The provider defaults to google and the token is
// accepted under either the token or access_token key.
func ParseCallbackParams(rawURL string) (CallbackParams, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CallbackParams{}, err
	}

	values := u.Query()
	// EscapedFragment keeps the query percent-encoded; parsing the decoded
	// fragment would decode token values a second time.
	if _, query, found := strings.Cut(u.EscapedFragment(), "?"); found {
		fragValues, err := url.ParseQuery(query)
		if err == nil {
			for key, vals := range fragValues {
				values[key] = vals
			}
		}
	}

	token := values.Get("token")
	if token == "" {
		token = values.Get("access_token")
	}
	provider := values.Get("provider")
	if provider == "" {
		provider = "google"
	}

	return CallbackParams{
		Token:            token,
		Provider:         provider,
		Error:            values.Get("error"),
		ErrorDescription: values.Get("error_description"),
	}, nil
}

// Routes the callback flow can terminate in.
const (
	RouteHome    = "/"
	RouteProfile = "/profile"
)

// Navigation is an internal route change the callback flow decided on. Error
// outcomes carry the message as a query parameter because the flow has no
// synchronous caller to hand a result to.
type Navigation struct {
	Route  string
	Params url.Values
}

func homeWithError(message string) Navigation {
	return Navigation{
		Route:  RouteHome,
		Params: url.Values{"error": {message}},
	}
}

// ErrorMessage returns the carried error message, or "".
func (n Navigation) ErrorMessage() string {
	if n.Params == nil {
		return ""
	}
	return n.Params.Get("error")
}

// ProcessCallback runs the one-shot callback state machine. Every path
// terminates either in the profile route with an authenticated session or in
// the home route carrying an error parameter; there are no retries.
func (s *Service) ProcessCallback(ctx context.Context, params CallbackParams) Navigation {
	if params.Error != "" {
		message := params.Error
		if params.ErrorDescription != "" {
			message = params.ErrorDescription
		}
		s.log.Warn().Str("provider", params.Provider).Str("error", params.Error).Msg("provider reported an error")
		return homeWithError(message)
	}

	if params.Token == "" {
		return homeWithError(msgNoTokenReceived)
	}

	var resp *api.TokenResponse
	var err error
	switch params.Provider {
	case "google":
		resp, err = s.api.ExchangeGoogleToken(ctx, params.Token)
	case "facebook":
		resp, err = s.api.ExchangeFacebookToken(ctx, params.Token)
	default:
		return homeWithError(UnsupportedProviderErr.Error() + ": " + params.Provider)
	}
	if err != nil {
		return homeWithError(err.Error())
	}

	accessToken := resp.Data.AccessTokenValue()
	refreshToken := resp.Data.RefreshTokenValue()
	if !resp.Success || accessToken == "" || refreshToken == "" {
		return homeWithError(msgMissingTokens)
	}

	if err := s.HandleOAuthCallback(accessToken, refreshToken, callbackUser(resp.Data)); err != nil {
		return homeWithError(err.Error())
	}
	return Navigation{Route: RouteProfile}
}

// callbackUser builds a user record when the exchange response carried one.
func callbackUser(data api.TokenData) *users.User {
	if data.UserID == "" && data.Email == "" {
		return nil
	}
	return &users.User{
		UserID:       data.UserID,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		ProfileImage: data.ProfileImage,
	}
}

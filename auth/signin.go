package auth

import "net/url"

// ExternalRedirector performs a full navigation out of the application, as
// opposed to an internal route change. Sign-in initiation hands control to
// the backend's OAuth flow through this effect, so tests can assert on the
// redirect URL without a browser.
type ExternalRedirector interface {
	RedirectTo(rawURL string)
}

// GoogleSignInURL computes the backend-hosted Google OAuth entry point with
// the fragment-routed callback as redirect_uri.
func (s *Service) GoogleSignInURL() string {
	return s.signInURL("google")
}

// FacebookSignInURL computes the backend-hosted Facebook OAuth entry point.
func (s *Service) FacebookSignInURL() string {
	return s.signInURL("facebook")
}

func (s *Service) signInURL(provider string) string {
	callback := s.config.GetAppOrigin() + "/#/auth/callback"
	return s.config.GetAPIBaseURL() + "/auth/" + provider + "?redirect_uri=" + url.QueryEscape(callback)
}

// InitiateGoogleSignIn hands the browser to the backend's Google OAuth flow.
// Control does not return to the application until the provider redirects to
// the callback route.
func (s *Service) InitiateGoogleSignIn(redirector ExternalRedirector) {
	redirector.RedirectTo(s.GoogleSignInURL())
}

// InitiateFacebookSignIn hands the browser to the backend's Facebook flow.
func (s *Service) InitiateFacebookSignIn(redirector ExternalRedirector) {
	redirector.RedirectTo(s.FacebookSignInURL())
}

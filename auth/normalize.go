package auth

import (
	"net/url"
	"strings"
)

// NormalizeCallbackURL bridges the backend's plain-path redirect with the
// fragment router. The backend does not know about fragments and may redirect
// to /auth/callback?... instead of /#/auth/callback?...; when the raw URL
// matches that pattern, every query parameter is re-encoded onto the fragment
// route and the result must be loaded as a full browser redirect. URLs that
// do not match pass through untouched.
func NormalizeCallbackURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Fragment != "" {
		return "", false // already fragment-routed
	}
	if strings.TrimSuffix(u.Path, "/") != "/auth/callback" {
		return "", false
	}

	origin := u.Scheme + "://" + u.Host
	normalized := origin + "/#/auth/callback"
	if u.RawQuery != "" {
		normalized += "?" + u.RawQuery
	}
	return normalized, true
}

package auth

import "errors"

var (
	MissingTokenPairErr    = errors.New("exchange response missing token pair")
	UnsupportedProviderErr = errors.New("unsupported provider")
)

// User-facing messages surfaced through the session error string or as
// navigation query parameters. The web client renders these verbatim.
const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
	msgNoTokenReceived    = "No token received from backend"
	msgMissingTokens      = "Missing tokens in exchange response"
)

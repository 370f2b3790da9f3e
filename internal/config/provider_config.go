package config

// ProviderConfig carries the credentials for native social sign-in, where the
// client obtains a provider token itself and exchanges it through the
// backend's /auth/social-login endpoint.
type ProviderConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetFacebookClientID() string
	GetFacebookClientSecret() string
	GetLoopbackAddr() string
}

type Providers struct{}

var _ ProviderConfig = Providers{}

func (Providers) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (Providers) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (Providers) GetFacebookClientID() string {
	return GetEnv("FACEBOOK_CLIENT_ID", "")
}

func (Providers) GetFacebookClientSecret() string {
	return GetEnv("FACEBOOK_CLIENT_SECRET", "")
}

// GetLoopbackAddr is the listen address for the local redirect server used
// during native sign-in.
func (Providers) GetLoopbackAddr() string {
	return GetEnv("LOOPBACK_ADDR", "127.0.0.1:53682")
}

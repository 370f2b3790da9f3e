package config

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
	ProviderConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetAppOrigin() string
	GetStoragePath() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	HTTPClient
	Session
	Providers
}

func New() Config {
	return mainConfig{}
}

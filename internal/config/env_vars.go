package config

import "os"

const (
	appNameVar     = "APP_NAME"
	apiBaseURLVar  = "API_BASE_URL"
	appOriginVar   = "APP_ORIGIN"
	storagePathVar = "STORAGE_PATH"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Digna Client")
}

// GetAPIBaseURL returns the base URL of the Digna REST backend, including the
// /api/v1 prefix. Every endpoint path is appended to this value.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "https://api.thedigna.com/api/v1")
}

// GetAppOrigin returns the origin of the web front end. OAuth callback URLs
// are computed against this origin so the backend redirects back into the
// fragment router.
func (EnvVars) GetAppOrigin() string {
	return GetEnv(appOriginVar, "https://thedigna.com")
}

func (EnvVars) GetStoragePath() string {
	return GetEnv(storagePathVar, "./data/digna.db")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

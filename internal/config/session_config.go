package config

import "time"

type SessionConfig interface {
	GetSessionTimeout() time.Duration
	GetActivityThrottle() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionTimeout() time.Duration {
	return 1 * time.Hour // Inactive sessions are logged out after an hour
}

func (Session) GetActivityThrottle() time.Duration {
	return 30 * time.Second // Activity resets the timer at most once per window
}

package config

import "time"

type ClientConfig interface {
	GetHTTPTimeout() time.Duration
}

type HTTPClient struct{}

var _ ClientConfig = HTTPClient{}

func (HTTPClient) GetHTTPTimeout() time.Duration {
	return 30 * time.Second
}

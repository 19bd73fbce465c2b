package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	baseURLKey        = "base_url"
	requestTimeoutKey = "request_timeout"
	refreshTimeoutKey = "refresh_timeout"
	userAgentKey      = "user_agent"
)

type APIConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
	GetUserAgent() string
}

type API struct {
	v *viper.Viper
}

var _ APIConfig = API{}

// GetBaseURL returns the backend API root without a trailing slash, e.g. "http://localhost:15000/api"
func (a API) GetBaseURL() string {
	return strings.TrimRight(a.v.GetString(baseURLKey), "/")
}

func (a API) GetRequestTimeout() time.Duration {
	return positiveDuration(a.v.GetDuration(requestTimeoutKey), 15*time.Second)
}

func (a API) GetRefreshTimeout() time.Duration {
	return positiveDuration(a.v.GetDuration(refreshTimeoutKey), 10*time.Second)
}

func (a API) GetUserAgent() string {
	return a.v.GetString(userAgentKey)
}

func positiveDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

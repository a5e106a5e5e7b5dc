package config

import (
	"strconv"
	"time"
)

const (
	clientURLVar     = "CLIENT_URL"
	apiURLVar        = "API_URL"
	apiPrefixVar     = "API_PREFIX"
	serverTimeoutVar = "SERVER_TIMEOUT"
)

// defaultRequestTimeoutSeconds bounds plain HTTP calls while still tolerating
// slow but legitimate upstreams. Upgraded connections are not subject to it.
const defaultRequestTimeoutSeconds = 500

type Proxy struct{}

var _ ProxyConfig = Proxy{}

// GetClientOriginURL returns the default upstream origin. Required.
func (Proxy) GetClientOriginURL() string {
	return GetEnv(clientURLVar, "")
}

// GetAPIOriginURL returns the API upstream origin. Optional: when unset, all
// traffic (including API-prefixed paths) is routed to the client origin.
func (Proxy) GetAPIOriginURL() string {
	return GetEnv(apiURLVar, "")
}

func (Proxy) GetAPIPrefix() string {
	return GetEnv(apiPrefixVar, "/api")
}

// GetRequestTimeout returns the deadline applied to upstream response headers
// for plain HTTP calls, in seconds via SERVER_TIMEOUT.
func (Proxy) GetRequestTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(serverTimeoutVar, ""))
	if err != nil || seconds <= 0 {
		seconds = defaultRequestTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

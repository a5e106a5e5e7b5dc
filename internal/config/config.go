package config

import "time"

type Config interface {
	EnvConfig
	OAuthConfig
	ProxyConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetMetricsPort() string
}

type OAuthConfig interface {
	GetIssuerURL() string
	GetClientID() string
	GetClientSecret() string
	GetGatewayURL() string
}

type ProxyConfig interface {
	GetClientOriginURL() string
	GetAPIOriginURL() string
	GetAPIPrefix() string
	GetRequestTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	OAuth
	Proxy
}

func New() Config {
	return mainConfig{}
}

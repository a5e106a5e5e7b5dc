package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar        = "SERVER_PORT"
	appNameVar        = "APP_NAME"
	metricsPortEnvVar = "METRICS_PORT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "SSO Proxy")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "development"
	}
	return env
}

// GetMetricsPort returns the listen address for the metrics endpoint.
// Empty means the metrics listener is disabled.
func (EnvVars) GetMetricsPort() string {
	port := GetEnv(metricsPortEnvVar, "")
	if port == "" {
		return ""
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

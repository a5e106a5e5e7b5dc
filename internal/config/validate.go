package config

import (
	apperrors "ssoproxy/internal/errors"
)

// Validate checks the configuration required before the proxy can start.
// The API origin is deliberately not checked: it is optional and its absence
// degrades gracefully to client-only routing.
func Validate(c Config) error {
	required := map[string]string{
		issuerURLVar: c.GetIssuerURL(),
		clientIDVar:  c.GetClientID(),
		clientURLVar: c.GetClientOriginURL(),
	}
	for name, value := range required {
		if value == "" {
			return apperrors.Wrapf(apperrors.ErrConfigurationMissing, "%s is not set", name)
		}
	}
	return nil
}

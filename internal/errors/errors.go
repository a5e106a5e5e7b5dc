package errors

import (
	"errors"
	"fmt"
)

// Common error types for the SSO proxy
var (
	// Authentication errors
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrInvalidToken           = errors.New("invalid token")
	ErrTokenInactive          = errors.New("token is not active")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Auth flow errors
	ErrStateNotFound = errors.New("authorization state not found")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// Configuration errors
	ErrConfigurationMissing = errors.New("required configuration missing")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

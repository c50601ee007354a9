package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotConfigured is returned when Bunnings credentials are not configured
	ErrNotConfigured = errors.New("Bunnings API not configured")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrTokenRequest is returned when the token endpoint cannot be reached
	ErrTokenRequest = errors.New("Bunnings token request failed")

	// ErrBunningsAPIFailure is returned when a Bunnings API request fails below the HTTP layer
	ErrBunningsAPIFailure = errors.New("Bunnings API request failed")
)

// ConfigurationError reports missing client credentials. It is fatal and never retried.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Bunnings client misconfigured: %v must be set", e.Missing)
}

// Is lets errors.Is(err, ErrNotConfigured) match a ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrNotConfigured
}

// AuthError reports a rejected client-credentials grant.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("Bunnings auth failed (%d): %s", e.StatusCode, e.Body)
}

// APIError is a non-2xx response from one of the Bunnings data APIs.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Bunnings %s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

// Temporary reports whether the request is worth retrying.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsFatal reports whether err must abort the caller instead of degrading
// to an empty result. Only configuration and auth failures qualify.
func IsFatal(err error) bool {
	var cfgErr *ConfigurationError
	var authErr *AuthError
	return errors.As(err, &cfgErr) || errors.As(err, &authErr)
}

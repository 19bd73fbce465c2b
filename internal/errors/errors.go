package errors

import (
	"errors"
	"fmt"
)

// Common error types for the job portal client
var (
	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")

	// Token errors
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrSessionExpired = errors.New("session expired")

	// Transport errors
	ErrTransport = errors.New("transport error")

	// Storage errors
	ErrStoreUnavailable = errors.New("session store unavailable")
	ErrCorruptSession   = errors.New("corrupt session data")

	// General errors
	ErrInvalidRequest = errors.New("invalid request")
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

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}


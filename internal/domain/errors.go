package domain

import (
	"errors"
	"fmt"
)

// AuthenticationError reports invalid credentials or an unreachable host
// during login. Not retryable without user action, except during initial
// synchronization where the scheduler retries with a fixed delay.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// SessionFetchError reports a network or parse failure while polling
// sessions. The cycle that hit it aborts without altering displayed state.
type SessionFetchError struct {
	Err error
}

func (e *SessionFetchError) Error() string {
	return fmt.Sprintf("session fetch failed: %v", e.Err)
}

func (e *SessionFetchError) Unwrap() error { return e.Err }

// ChannelTransportError reports a presence channel transport failure
type ChannelTransportError struct {
	Op  string
	Err error
}

func (e *ChannelTransportError) Error() string {
	return fmt.Sprintf("presence channel %s: %v", e.Op, e.Err)
}

func (e *ChannelTransportError) Unwrap() error { return e.Err }

// ConfigurationError reports invalid input rejected before any network call,
// such as a duplicate server or an empty required field.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// IsAuthentication reports whether err is an AuthenticationError
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsSessionFetch reports whether err is a SessionFetchError
func IsSessionFetch(err error) bool {
	var se *SessionFetchError
	return errors.As(err, &se)
}

// IsConfiguration reports whether err is a ConfigurationError
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

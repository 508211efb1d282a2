package auth

import (
	"errors"
	"fmt"

	"github.com/casevault/casevault/pkg/domain"
)

// ErrSubmitInFlight is returned when a login is submitted while a previous
// submission has not finished.
var ErrSubmitInFlight = errors.New("login already in progress")

// ValidationError means the form input was rejected before any call left
// the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

// AuthError means the identity provider rejected the credentials or could
// not be reached.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// RelayError means the provider accepted the user but the backend did not
// confirm the token.
type RelayError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *RelayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend rejected token: status %d: %s", e.StatusCode, e.Detail)
	}
	return "backend request failed: " + e.Detail
}

func (e *RelayError) Unwrap() error { return e.Err }

package identity

import (
	"errors"
	"fmt"
)

// Common errors for identity lookups.
var (
	// ErrUserNotFound is returned when an account lookup has no match.
	ErrUserNotFound = errors.New("user not found")

	// ErrGroupNotFound is returned when a group lookup has no match.
	ErrGroupNotFound = errors.New("group not found")
)

// UnknownUserError reports that a requested account name does not resolve.
type UnknownUserError struct {
	Name string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("user '%s' not found", e.Name)
}

// Unwrap allows errors.Is(err, ErrUserNotFound).
func (e *UnknownUserError) Unwrap() error {
	return ErrUserNotFound
}

// IsNotFound reports whether err is a user or group miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrGroupNotFound)
}

package operator

import "errors"

var (
	// ErrOverrideDenied is returned when a user without the
	// platform-operator flag requests the global admin override.
	ErrOverrideDenied = errors.New("admin override denied")

	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

package role

import "errors"

// ErrUnknownRole is returned when a string does not match any known role.
var ErrUnknownRole = errors.New("unknown role")

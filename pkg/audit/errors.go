package audit

import "errors"

// ErrEventValidation is returned when an event is missing required fields.
var ErrEventValidation = errors.New("audit event validation failed")

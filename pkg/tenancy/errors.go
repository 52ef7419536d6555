package tenancy

import "errors"

var (
	// ErrUnauthorizedTenant is returned when the caller explicitly selects
	// a tenant they hold no active membership in.
	ErrUnauthorizedTenant = errors.New("unauthorized tenant")

	// ErrAmbiguousTenant is returned when no tenant can be resolved: the
	// caller has no active memberships and supplied no usable selector.
	ErrAmbiguousTenant = errors.New("no tenant resolvable")

	// ErrInvalidSelector is returned when the tenant selector is malformed.
	ErrInvalidSelector = errors.New("invalid tenant selector")

	// ErrInsufficientRole is returned by RequireRole when the caller's role
	// is below the required minimum.
	ErrInsufficientRole = errors.New("insufficient role")

	// ErrNoRequestContext is returned when a route requiring a resolved
	// context is hit without one.
	ErrNoRequestContext = errors.New("no request context")
)

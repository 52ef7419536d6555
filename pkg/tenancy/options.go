package tenancy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/operator"
)

// PrincipalFunc extracts the authenticated user from the request. Identity
// verification itself is an upstream concern; the middleware only consumes
// its result.
type PrincipalFunc func(r *http.Request) (uuid.UUID, bool)

// StickyReader returns the caller's previously selected tenant, uuid.Nil
// when there is none.
type StickyReader func(r *http.Request) uuid.UUID

// StickyWriter persists the resolved tenant as the caller's selection for
// subsequent requests. Only the tenant choice is persisted, never the
// admin-override flag.
type StickyWriter func(r *http.Request, tenantID uuid.UUID)

// ErrorHandler renders resolution failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// mwConfig holds middleware configuration.
type mwConfig struct {
	selector       Selector
	principal      PrincipalFunc
	stickyReader   StickyReader
	stickyWriter   StickyWriter
	errorHandler   ErrorHandler
	overrideHeader string
	skipPaths      []string
}

// Option configures the middleware.
type Option func(*mwConfig)

// WithSelector sets the tenant selector chain.
func WithSelector(selector Selector) Option {
	return func(c *mwConfig) {
		if selector != nil {
			c.selector = selector
		}
	}
}

// WithPrincipal sets the authenticated-principal extractor.
func WithPrincipal(principal PrincipalFunc) Option {
	return func(c *mwConfig) {
		if principal != nil {
			c.principal = principal
		}
	}
}

// WithStickySelection wires reading and persisting the caller's tenant
// choice, usually backed by the session.
func WithStickySelection(read StickyReader, write StickyWriter) Option {
	return func(c *mwConfig) {
		c.stickyReader = read
		c.stickyWriter = write
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *mwConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithOverrideHeader overrides the header used to request admin override.
func WithOverrideHeader(name string) Option {
	return func(c *mwConfig) {
		if name != "" {
			c.overrideHeader = name
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution.
func WithSkipPaths(paths []string) Option {
	return func(c *mwConfig) {
		c.skipPaths = paths
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnauthorizedTenant):
		http.Error(w, "Unauthorized tenant", http.StatusForbidden)
	case errors.Is(err, operator.ErrOverrideDenied):
		http.Error(w, "Admin override denied", http.StatusForbidden)
	case errors.Is(err, ErrAmbiguousTenant):
		http.Error(w, "No tenant resolvable", http.StatusConflict)
	case errors.Is(err, ErrInvalidSelector):
		http.Error(w, "Invalid tenant selector", http.StatusBadRequest)
	case errors.Is(err, ErrNoRequestContext):
		http.Error(w, "Tenant context required", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

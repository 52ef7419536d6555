package tenancy

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/role"
)

// State is the resolution state of a request. A request starts unresolved,
// passes through resolving, and ends in exactly one terminal state. The
// value is discarded with the request; terminal states are never reused.
type State int

const (
	StateUnresolved State = iota
	StateResolving
	StateResolved
	StateAdminOverride
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateAdminOverride:
		return "admin_override"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is one of the terminal states.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateAdminOverride || s == StateDenied
}

// RequestContext is the per-request isolation decision: which user acts on
// which tenant, with what role, and whether the global admin override is in
// effect. It is an immutable comparable value created fresh for every
// request; resolving identical inputs against identical membership state
// yields equal values.
//
// Collaborators receive it read-only and must never construct their own.
type RequestContext struct {
	userID        uuid.UUID
	tenantID      uuid.UUID
	role          role.Role
	adminOverride bool
	state         State
}

// NewResolvedContext creates a context scoped to a single tenant.
func NewResolvedContext(userID, tenantID uuid.UUID, r role.Role) RequestContext {
	return RequestContext{
		userID:   userID,
		tenantID: tenantID,
		role:     r,
		state:    StateResolved,
	}
}

// NewOverrideContext creates a context in the global admin-override scope.
// The tenant id is zero: the effective tenant set is "all".
func NewOverrideContext(userID uuid.UUID) RequestContext {
	return RequestContext{
		userID:        userID,
		adminOverride: true,
		state:         StateAdminOverride,
	}
}

// UserID returns the acting user.
func (rc RequestContext) UserID() uuid.UUID {
	return rc.userID
}

// TenantID returns the resolved tenant, or uuid.Nil in the override state.
func (rc RequestContext) TenantID() uuid.UUID {
	return rc.tenantID
}

// Role returns the caller's role in the resolved tenant. Zero in the
// override state.
func (rc RequestContext) Role() role.Role {
	return rc.role
}

// IsAdminOverride reports whether the context carries the global scope.
func (rc RequestContext) IsAdminOverride() bool {
	return rc.adminOverride
}

// State returns the terminal resolution state of the context.
func (rc RequestContext) State() State {
	return rc.state
}

// EffectiveTenants returns the tenant ids queries may touch. A nil slice
// means "all tenants" and only occurs in the override state.
func (rc RequestContext) EffectiveTenants() []uuid.UUID {
	if rc.adminOverride {
		return nil
	}
	return []uuid.UUID{rc.tenantID}
}

// RequireRole returns nil when the caller's role in the resolved tenant is
// at least min. An admin-override context passes every check: the operator
// already holds a strictly wider capability than any tenant role.
func (rc RequestContext) RequireRole(min role.Role) error {
	if rc.adminOverride {
		return nil
	}
	if !rc.role.AtLeast(min) {
		return ErrInsufficientRole
	}
	return nil
}

// Equal reports whether two contexts represent the same resolution decision.
func (rc RequestContext) Equal(other RequestContext) bool {
	return rc == other
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithRequestContext attaches the resolved decision to the context.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext retrieves the resolved decision from the context.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(RequestContext)
	return rc, ok
}

// MustFromContext retrieves the resolved decision or panics. Use only in
// handlers mounted behind RequireContext.
func MustFromContext(ctx context.Context) RequestContext {
	rc, ok := FromContext(ctx)
	if !ok {
		panic("tenancy: no request context")
	}
	return rc
}

// LoggerExtractor enriches log records with the resolved tenant id, or the
// override marker when the request runs in the global scope.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		rc, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		if rc.IsAdminOverride() {
			return slog.String("tenant_id", "*"), true
		}
		return slog.String("tenant_id", rc.TenantID().String()), true
	}
}

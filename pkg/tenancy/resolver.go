package tenancy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/membership"
)

// ResolveRequest is the input to one resolution: the authenticated user and
// their optional explicit selection, sticky selection and override request.
// Zero uuids mean "absent".
type ResolveRequest struct {
	UserID        uuid.UUID
	Selector      uuid.UUID
	Sticky        uuid.UUID
	AdminOverride bool
}

// OverrideGate authorizes the global admin-override scope for a user.
// Implemented by operator.Gate.
type OverrideGate interface {
	Authorize(ctx context.Context, userID uuid.UUID) error
}

// Resolver turns (caller, optional selector) into a RequestContext. It is
// the single place this decision is made; handlers and storage consume the
// result and never re-derive it.
type Resolver struct {
	directory membership.Directory
	gate      OverrideGate
	log       *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the structured logger for the resolver.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a tenant context resolver. The gate may be nil for
// deployments without the override escape hatch; override requests then
// fail outright.
func NewResolver(directory membership.Directory, gate OverrideGate, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		directory: directory,
		gate:      gate,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve executes the resolution algorithm:
//
//  1. An override request goes to the gate; a grant short-circuits with the
//     global scope, a denial fails the request outright.
//  2. An explicit selector must match an active membership, otherwise the
//     request fails with ErrUnauthorizedTenant. No fallback: an explicit
//     choice that cannot be honored is an error, not a suggestion.
//  3. A sticky (previously selected) tenant is reused while the membership
//     is still active.
//  4. Otherwise the earliest joined active membership wins; with none left
//     the request fails with ErrAmbiguousTenant.
//
// The decision is deterministic: identical requests against identical
// membership state produce equal contexts.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (RequestContext, error) {
	if req.AdminOverride {
		if r.gate == nil {
			return RequestContext{}, fmt.Errorf("resolve: no override gate configured")
		}
		if err := r.gate.Authorize(ctx, req.UserID); err != nil {
			return RequestContext{}, err
		}
		return NewOverrideContext(req.UserID), nil
	}

	if req.Selector != uuid.Nil {
		role, err := r.directory.RoleFor(ctx, req.UserID, req.Selector)
		if err != nil {
			if errors.Is(err, membership.ErrNotAMember) {
				r.log.WarnContext(ctx, "selector rejected",
					slog.String("user_id", req.UserID.String()),
					slog.String("tenant_id", req.Selector.String()))
				return RequestContext{}, ErrUnauthorizedTenant
			}
			return RequestContext{}, fmt.Errorf("resolve selector: %w", err)
		}
		return NewResolvedContext(req.UserID, req.Selector, role), nil
	}

	if req.Sticky != uuid.Nil {
		role, err := r.directory.RoleFor(ctx, req.UserID, req.Sticky)
		if err == nil {
			return NewResolvedContext(req.UserID, req.Sticky, role), nil
		}
		if !errors.Is(err, membership.ErrNotAMember) {
			return RequestContext{}, fmt.Errorf("resolve sticky: %w", err)
		}
		// Sticky tenant revoked since the last request: fall through.
	}

	memberships, err := r.directory.ListTenants(ctx, req.UserID)
	if err != nil {
		return RequestContext{}, fmt.Errorf("resolve fallback: %w", err)
	}
	if len(memberships) == 0 {
		return RequestContext{}, ErrAmbiguousTenant
	}

	first := memberships[0]
	return NewResolvedContext(req.UserID, first.TenantID, first.Role), nil
}

package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/role"
)

// Membership is the (user, tenant, role) relation granting tenant access.
// There is at most one membership row per (user, tenant) pair; removal
// deactivates the row instead of deleting it so the grant history stays
// auditable.
type Membership struct {
	UserID    uuid.UUID `json:"user_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Role      role.Role `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Directory is the authoritative source of tenant memberships.
type Directory interface {
	// Add grants a user membership in a tenant with the given role.
	// Returns ErrDuplicateMembership if an active membership already exists.
	// A previously revoked membership is reactivated with the new role.
	Add(ctx context.Context, userID, tenantID uuid.UUID, r role.Role) error

	// Revoke deactivates the membership. Idempotent: revoking a missing or
	// already inactive membership is a no-op. The row is kept for audit.
	Revoke(ctx context.Context, userID, tenantID uuid.UUID) error

	// ListTenants returns the user's active memberships in a stable order:
	// earliest joined first, tenant id as tie-breaker.
	ListTenants(ctx context.Context, userID uuid.UUID) ([]Membership, error)

	// RoleFor returns the user's role in the tenant, or ErrNotAMember when
	// no active membership exists.
	RoleFor(ctx context.Context, userID, tenantID uuid.UUID) (role.Role, error)
}

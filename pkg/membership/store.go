package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grantfox/tenantcore/pkg/pg"
	"github.com/grantfox/tenantcore/pkg/role"
)

// Store is the PostgreSQL-backed membership directory.
//
// It intentionally reads through the pool directly, not through the request
// binder: membership rows are the input to tenant resolution, so they are not
// themselves tenant-scoped and carry no row-level policy.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed membership directory.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Add(ctx context.Context, userID, tenantID uuid.UUID, r role.Role) error {
	if userID == uuid.Nil || tenantID == uuid.Nil || !r.Valid() {
		return ErrInvalidMembership
	}

	// A revoked membership is reactivated in place; an active one violates
	// the (user_id, tenant_id) primary key and surfaces as a duplicate.
	tag, err := s.pool.Exec(ctx, `
		UPDATE memberships
		SET role = $3, active = true, updated_at = now()
		WHERE user_id = $1 AND tenant_id = $2 AND active = false`,
		userID, tenantID, r.String())
	if err != nil {
		return fmt.Errorf("reactivate membership: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO memberships (user_id, tenant_id, role, active)
		VALUES ($1, $2, $3, true)`,
		userID, tenantID, r.String())
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateMembership
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (s *Store) Revoke(ctx context.Context, userID, tenantID uuid.UUID) error {
	// Idempotent: matching zero rows is fine.
	_, err := s.pool.Exec(ctx, `
		UPDATE memberships
		SET active = false, updated_at = now()
		WHERE user_id = $1 AND tenant_id = $2 AND active = true`,
		userID, tenantID)
	if err != nil {
		return fmt.Errorf("revoke membership: %w", err)
	}
	return nil
}

func (s *Store) ListTenants(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, tenant_id, role, active, created_at, updated_at
		FROM memberships
		WHERE user_id = $1 AND active = true
		ORDER BY created_at, tenant_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var result []Membership
	for rows.Next() {
		var m Membership
		var roleName string
		if err := rows.Scan(&m.UserID, &m.TenantID, &roleName, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.Role = role.Role(roleName)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	return result, nil
}

func (s *Store) RoleFor(ctx context.Context, userID, tenantID uuid.UUID) (role.Role, error) {
	var roleName string
	err := s.pool.QueryRow(ctx, `
		SELECT role
		FROM memberships
		WHERE user_id = $1 AND tenant_id = $2 AND active = true`,
		userID, tenantID).Scan(&roleName)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return "", ErrNotAMember
		}
		return "", fmt.Errorf("get role: %w", err)
	}
	return role.Role(roleName), nil
}

package operator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grantfox/tenantcore/pkg/pg"
)

// Store is the PostgreSQL-backed user source.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed user source.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, platform_operator, created_at
		FROM users
		WHERE id = $1`,
		id).Scan(&user.ID, &user.Email, &user.PlatformOperator, &user.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// SetPlatformOperator flips the operator flag for a user. This is the
// administrative workflow that grants or removes override eligibility.
func (s *Store) SetPlatformOperator(ctx context.Context, id uuid.UUID, isOperator bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET platform_operator = $2 WHERE id = $1`,
		id, isOperator)
	if err != nil {
		return fmt.Errorf("set platform operator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

package sponsors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grantfox/tenantcore/pkg/pg"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

// TxRunner executes a function inside a transaction whose session settings
// carry the caller's tenant scope. rls.Binder satisfies it.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// Store persists sponsors through a TxRunner so every statement runs under
// row-level security. Queries additionally filter by the resolved tenant in
// SQL; the policy is the backstop, not the only line.
type Store struct {
	runner TxRunner
}

func NewStore(runner TxRunner) *Store {
	return &Store{runner: runner}
}

// Create inserts a sponsor into the caller's resolved tenant. Operator
// override contexts have no single tenant to write into, so creation is
// refused for them.
func (s *Store) Create(ctx context.Context, name, contact string) (Sponsor, error) {
	if name == "" {
		return Sponsor{}, fmt.Errorf("%w: name is required", ErrInvalidSponsor)
	}
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return Sponsor{}, tenancy.ErrNoRequestContext
	}
	if rc.IsAdminOverride() {
		return Sponsor{}, fmt.Errorf("%w: admin override has no tenant to create in", ErrInvalidSponsor)
	}

	sponsor := Sponsor{
		ID:       uuid.New(),
		TenantID: rc.TenantID(),
		Name:     name,
		Contact:  contact,
	}
	err := s.runner.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO sponsors (id, tenant_id, name, contact)
			 VALUES ($1, $2, $3, $4)
			 RETURNING created_at, updated_at`,
			sponsor.ID, sponsor.TenantID, sponsor.Name, sponsor.Contact,
		).Scan(&sponsor.CreatedAt, &sponsor.UpdatedAt)
	})
	if err != nil {
		return Sponsor{}, fmt.Errorf("create sponsor: %w", err)
	}
	return sponsor, nil
}

// Get returns a sponsor by id within the caller's tenant scope.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Sponsor, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return Sponsor{}, tenancy.ErrNoRequestContext
	}

	var sponsor Sponsor
	err := s.runner.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `SELECT id, tenant_id, name, contact, created_at, updated_at
			FROM sponsors WHERE id = $1`
		args := []any{id}
		if !rc.IsAdminOverride() {
			query += ` AND tenant_id = $2`
			args = append(args, rc.TenantID())
		}
		row := tx.QueryRow(ctx, query, args...)
		return row.Scan(&sponsor.ID, &sponsor.TenantID, &sponsor.Name,
			&sponsor.Contact, &sponsor.CreatedAt, &sponsor.UpdatedAt)
	})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Sponsor{}, ErrSponsorNotFound
		}
		return Sponsor{}, fmt.Errorf("get sponsor: %w", err)
	}
	return sponsor, nil
}

// List returns the sponsors visible to the caller: the resolved tenant's
// rows, or every tenant's rows under admin override.
func (s *Store) List(ctx context.Context) ([]Sponsor, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrNoRequestContext
	}

	var out []Sponsor
	err := s.runner.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `SELECT id, tenant_id, name, contact, created_at, updated_at
			FROM sponsors`
		var args []any
		if !rc.IsAdminOverride() {
			query += ` WHERE tenant_id = $1`
			args = append(args, rc.TenantID())
		}
		query += ` ORDER BY created_at, id`

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var sp Sponsor
			if err := rows.Scan(&sp.ID, &sp.TenantID, &sp.Name,
				&sp.Contact, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
				return err
			}
			out = append(out, sp)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	return out, nil
}

// Update changes a sponsor's mutable fields. tenant_id is never part of the
// SET clause.
func (s *Store) Update(ctx context.Context, id uuid.UUID, name, contact string) (Sponsor, error) {
	if name == "" {
		return Sponsor{}, fmt.Errorf("%w: name is required", ErrInvalidSponsor)
	}
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return Sponsor{}, tenancy.ErrNoRequestContext
	}

	var sponsor Sponsor
	err := s.runner.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `UPDATE sponsors SET name = $1, contact = $2, updated_at = now()
			WHERE id = $3`
		args := []any{name, contact, id}
		if !rc.IsAdminOverride() {
			query += ` AND tenant_id = $4`
			args = append(args, rc.TenantID())
		}
		query += ` RETURNING id, tenant_id, name, contact, created_at, updated_at`

		row := tx.QueryRow(ctx, query, args...)
		return row.Scan(&sponsor.ID, &sponsor.TenantID, &sponsor.Name,
			&sponsor.Contact, &sponsor.CreatedAt, &sponsor.UpdatedAt)
	})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Sponsor{}, ErrSponsorNotFound
		}
		return Sponsor{}, fmt.Errorf("update sponsor: %w", err)
	}
	return sponsor, nil
}

// Delete removes a sponsor within the caller's tenant scope.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return tenancy.ErrNoRequestContext
	}

	err := s.runner.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `DELETE FROM sponsors WHERE id = $1`
		args := []any{id}
		if !rc.IsAdminOverride() {
			query += ` AND tenant_id = $2`
			args = append(args, rc.TenantID())
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSponsorNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSponsorNotFound) {
			return ErrSponsorNotFound
		}
		return fmt.Errorf("delete sponsor: %w", err)
	}
	return nil
}

package rls

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNoContextBound is returned when a tenant-scoped unit of work is
	// attempted without a resolved request context.
	ErrNoContextBound = errors.New("no request context bound")

	// ErrPolicyViolation is returned when a row-level policy rejected an
	// operation the application layer considered authorized. This is an
	// invariant breach between the two enforcement layers: alert, never
	// retry.
	ErrPolicyViolation = errors.New("row-level policy violation")
)

// IsPolicyViolation detects row-level security rejections. PostgreSQL
// reports them as SQLSTATE 42501 ("new row violates row-level security
// policy").
func IsPolicyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPolicyViolation) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42501"
}

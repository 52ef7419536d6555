package rls_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/rls"
	"github.com/grantfox/tenantcore/pkg/role"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

// Integration tests run only against a real database; the isolation
// guarantees under test live in PostgreSQL itself.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TENANTCORE_TEST_PG")
	if connString == "" {
		t.Skip("set TENANTCORE_TEST_PG to run storage integration tests")
	}

	cfg, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)
	// A single connection forces sequential reuse across bindings, the
	// exact failure mode the binder must defend against.
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func setupScopedTable(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rls_test_rows (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id uuid NOT NULL,
			payload text NOT NULL
		)`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS rls_test_rows")
	})

	registry := rls.NewRegistry(rls.Policy{Table: "rls_test_rows"})
	require.NoError(t, registry.Apply(ctx, pool))
}

func scopedCtx(userID, tenantID uuid.UUID) context.Context {
	rc := tenancy.NewResolvedContext(userID, tenantID, role.Member)
	return tenancy.WithRequestContext(context.Background(), rc)
}

func TestBinder_Integration_Isolation(t *testing.T) {
	pool := integrationPool(t)
	setupScopedTable(t, pool)
	binder := rls.NewBinder(pool)

	tenantA, tenantB := uuid.New(), uuid.New()
	userA, userB := uuid.New(), uuid.New()

	// Seed one row per tenant under each tenant's own binding.
	for _, tc := range []struct{ user, tenant uuid.UUID }{
		{userA, tenantA},
		{userB, tenantB},
	} {
		err := binder.Do(scopedCtx(tc.user, tc.tenant), func(ctx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctx,
				"INSERT INTO rls_test_rows (tenant_id, payload) VALUES ($1, $2)",
				tc.tenant, "seed")
			return err
		})
		require.NoError(t, err)
	}

	t.Run("unfiltered query returns only own rows", func(t *testing.T) {
		var tenants []uuid.UUID
		err := binder.Do(scopedCtx(userA, tenantA), func(ctx context.Context, tx pgx.Tx) error {
			// Deliberately no WHERE clause: the policy must filter.
			rows, err := tx.Query(ctx, "SELECT tenant_id FROM rls_test_rows")
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var id uuid.UUID
				if err := rows.Scan(&id); err != nil {
					return err
				}
				tenants = append(tenants, id)
			}
			return rows.Err()
		})
		require.NoError(t, err)
		require.NotEmpty(t, tenants)
		for _, id := range tenants {
			assert.Equal(t, tenantA, id)
		}
	})

	t.Run("cross-tenant write is rejected as policy violation", func(t *testing.T) {
		err := binder.Do(scopedCtx(userA, tenantA), func(ctx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctx,
				"INSERT INTO rls_test_rows (tenant_id, payload) VALUES ($1, $2)",
				tenantB, "smuggled")
			return err
		})
		assert.ErrorIs(t, err, rls.ErrPolicyViolation)
	})

	t.Run("sequential reuse of one connection never leaks bindings", func(t *testing.T) {
		// MaxConns=1 guarantees both goroutines share the same
		// underlying connection back to back.
		var wg sync.WaitGroup
		run := func(userID, tenantID uuid.UUID) {
			defer wg.Done()
			for range 25 {
				var count int
				err := binder.Do(scopedCtx(userID, tenantID), func(ctx context.Context, tx pgx.Tx) error {
					return tx.QueryRow(ctx,
						"SELECT count(*) FROM rls_test_rows WHERE tenant_id <> $1",
						tenantID).Scan(&count)
				})
				assert.NoError(t, err)
				assert.Zero(t, count, "foreign rows visible under tenant %s", tenantID)
			}
		}

		wg.Add(2)
		go run(userA, tenantA)
		go run(userB, tenantB)
		wg.Wait()
	})

	t.Run("admin override sees all rows", func(t *testing.T) {
		ctx := tenancy.WithRequestContext(context.Background(),
			tenancy.NewOverrideContext(uuid.New()))

		var count int
		err := binder.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return tx.QueryRow(ctx, "SELECT count(*) FROM rls_test_rows").Scan(&count)
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, 2)
	})
}

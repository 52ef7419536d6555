package tenancy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/role"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

// TestConcurrentResolutions verifies that parallel resolutions for
// different users never bleed into each other.
func TestConcurrentResolutions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)

	const n = 16
	users := make([]uuid.UUID, n)
	tenants := make([]uuid.UUID, n)
	for i := range n {
		users[i], tenants[i] = uuid.New(), uuid.New()
		require.NoError(t, f.directory.Add(ctx, users[i], tenants[i], role.Member))
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				rc, err := f.resolver.Resolve(ctx, tenancy.ResolveRequest{UserID: users[i]})
				if assert.NoError(t, err) {
					assert.Equal(t, users[i], rc.UserID())
					assert.Equal(t, tenants[i], rc.TenantID())
				}
			}
		}()
	}
	wg.Wait()
}

// TestConcurrentRequests_NoContextBleed runs parallel HTTP requests for two
// tenants through one handler chain and checks every request observes only
// its own binding.
func TestConcurrentRequests_NoContextBleed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	userA, tenantA := uuid.New(), uuid.New()
	userB, tenantB := uuid.New(), uuid.New()
	require.NoError(t, f.directory.Add(ctx, userA, tenantA, role.Member))
	require.NoError(t, f.directory.Add(ctx, userB, tenantB, role.Member))

	mw := tenancy.Middleware(f.resolver,
		tenancy.WithPrincipal(tenancy.PrincipalFromHeader(userHeader)))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := tenancy.MustFromContext(r.Context())
		// Echo the bound tenant so the client side can verify it.
		w.Header().Set("X-Observed-Tenant", rc.TenantID().String())
	}))

	var wg sync.WaitGroup
	run := func(userID uuid.UUID, want uuid.UUID) {
		defer wg.Done()
		for range 100 {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set(userHeader, userID.String())
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			assert.Equal(t, want.String(), w.Header().Get("X-Observed-Tenant"))
		}
	}

	wg.Add(2)
	go run(userA, tenantA)
	go run(userB, tenantB)
	wg.Wait()
}

// TestConcurrentRevocation exercises resolution racing with revocation; a
// resolution must either succeed with the old state or fail cleanly, never
// return a context for a third tenant.
func TestConcurrentRevocation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	userID, tenantID := uuid.New(), uuid.New()
	require.NoError(t, f.directory.Add(ctx, userID, tenantID, role.Member))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for range 50 {
			_ = f.directory.Revoke(ctx, userID, tenantID)
			_ = f.directory.Add(ctx, userID, tenantID, role.Member)
		}
	}()

	go func() {
		defer wg.Done()
		for range 200 {
			rc, err := f.resolver.Resolve(ctx, tenancy.ResolveRequest{UserID: userID, Selector: tenantID})
			if err == nil {
				assert.Equal(t, tenantID, rc.TenantID())
			} else {
				assert.ErrorIs(t, err, tenancy.ErrUnauthorizedTenant)
			}
		}
	}()

	wg.Wait()
}

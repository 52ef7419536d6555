package tenancy_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/role"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

func TestRequestContext_Accessors(t *testing.T) {
	t.Parallel()

	userID, tenantID := uuid.New(), uuid.New()
	rc := tenancy.NewResolvedContext(userID, tenantID, role.Manager)

	assert.Equal(t, userID, rc.UserID())
	assert.Equal(t, tenantID, rc.TenantID())
	assert.Equal(t, role.Manager, rc.Role())
	assert.False(t, rc.IsAdminOverride())
	assert.Equal(t, []uuid.UUID{tenantID}, rc.EffectiveTenants())
	assert.Equal(t, tenancy.StateResolved, rc.State())
	assert.True(t, rc.State().Terminal())
}

func TestRequestContext_Override(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rc := tenancy.NewOverrideContext(userID)

	assert.Equal(t, userID, rc.UserID())
	assert.Equal(t, uuid.Nil, rc.TenantID())
	assert.True(t, rc.IsAdminOverride())
	assert.Nil(t, rc.EffectiveTenants())
	assert.Equal(t, tenancy.StateAdminOverride, rc.State())

	// The operator's global capability satisfies any role check.
	assert.NoError(t, rc.RequireRole(role.Owner))
}

func TestRequestContext_RequireRole(t *testing.T) {
	t.Parallel()

	rc := tenancy.NewResolvedContext(uuid.New(), uuid.New(), role.Manager)

	assert.NoError(t, rc.RequireRole(role.Viewer))
	assert.NoError(t, rc.RequireRole(role.Manager))
	assert.ErrorIs(t, rc.RequireRole(role.Admin), tenancy.ErrInsufficientRole)
	assert.ErrorIs(t, rc.RequireRole(role.Owner), tenancy.ErrInsufficientRole)
}

func TestRequestContext_ContextRoundTrip(t *testing.T) {
	t.Parallel()

	rc := tenancy.NewResolvedContext(uuid.New(), uuid.New(), role.Admin)
	ctx := tenancy.WithRequestContext(context.Background(), rc)

	got, ok := tenancy.FromContext(ctx)
	require.True(t, ok)
	assert.True(t, rc.Equal(got))

	assert.NotPanics(t, func() {
		assert.True(t, rc.Equal(tenancy.MustFromContext(ctx)))
	})
}

func TestRequestContext_MissingFromContext(t *testing.T) {
	t.Parallel()

	_, ok := tenancy.FromContext(context.Background())
	assert.False(t, ok)

	assert.Panics(t, func() {
		tenancy.MustFromContext(context.Background())
	})
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unresolved", tenancy.StateUnresolved.String())
	assert.Equal(t, "resolving", tenancy.StateResolving.String())
	assert.Equal(t, "resolved", tenancy.StateResolved.String())
	assert.Equal(t, "admin_override", tenancy.StateAdminOverride.String())
	assert.Equal(t, "denied", tenancy.StateDenied.String())

	assert.False(t, tenancy.StateUnresolved.Terminal())
	assert.False(t, tenancy.StateResolving.Terminal())
	assert.True(t, tenancy.StateDenied.Terminal())
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := tenancy.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	tenantID := uuid.New()
	ctx := tenancy.WithRequestContext(context.Background(),
		tenancy.NewResolvedContext(uuid.New(), tenantID, role.Member))
	attr, ok := extract(ctx)
	require.True(t, ok)
	assert.Equal(t, slog.String("tenant_id", tenantID.String()), attr)

	ctx = tenancy.WithRequestContext(context.Background(), tenancy.NewOverrideContext(uuid.New()))
	attr, ok = extract(ctx)
	require.True(t, ok)
	assert.Equal(t, slog.String("tenant_id", "*"), attr)
}

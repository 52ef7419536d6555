package rls_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/rls"
	"github.com/grantfox/tenantcore/pkg/role"
	"github.com/grantfox/tenantcore/pkg/tenancy"
)

func TestPolicy_DDL(t *testing.T) {
	t.Parallel()

	p := rls.Policy{Table: "sponsors"}
	stmts := p.DDL()
	require.Len(t, stmts, 4)

	assert.Equal(t, "ALTER TABLE sponsors ENABLE ROW LEVEL SECURITY", stmts[0])
	assert.Equal(t, "ALTER TABLE sponsors FORCE ROW LEVEL SECURITY", stmts[1])
	assert.Equal(t, "DROP POLICY IF EXISTS sponsors_tenant_isolation ON sponsors", stmts[2])
	assert.Contains(t, stmts[3], "CREATE POLICY sponsors_tenant_isolation ON sponsors")
	assert.Contains(t, stmts[3], "WITH CHECK", "writes must be constrained, not only reads")
}

func TestPolicy_Predicate(t *testing.T) {
	t.Parallel()

	t.Run("reads only bound session settings", func(t *testing.T) {
		t.Parallel()
		predicate := rls.Policy{Table: "grants"}.Predicate()

		assert.Contains(t, predicate, "current_setting('app.tenant_ids', true)")
		assert.Contains(t, predicate, "current_setting('app.admin_override', true)")
		assert.Contains(t, predicate, "tenant_id::text")
	})

	t.Run("custom tenant column", func(t *testing.T) {
		t.Parallel()
		predicate := rls.Policy{Table: "events", Column: "org_id"}.Predicate()
		assert.Contains(t, predicate, "org_id::text")
	})
}

func TestRegistry_DDL(t *testing.T) {
	t.Parallel()

	registry := rls.NewRegistry(
		rls.Policy{Table: "sponsors"},
		rls.Policy{Table: "grants"},
	).Add(rls.Policy{Table: "content_items"})

	assert.Len(t, registry.Policies(), 3)
	assert.Len(t, registry.DDL(), 12)
}

func TestTenantIDsValue(t *testing.T) {
	t.Parallel()

	t.Run("resolved context renders its tenant", func(t *testing.T) {
		t.Parallel()
		tenantID := uuid.New()
		rc := tenancy.NewResolvedContext(uuid.New(), tenantID, role.Member)
		assert.Equal(t, tenantID.String(), rls.TenantIDsValue(rc))
	})

	t.Run("override context renders empty set", func(t *testing.T) {
		t.Parallel()
		rc := tenancy.NewOverrideContext(uuid.New())
		assert.Equal(t, "", rls.TenantIDsValue(rc),
			"override visibility comes from the override setting, not a tenant list")
	})
}

func TestIsPolicyViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, rls.IsPolicyViolation(nil))
	assert.False(t, rls.IsPolicyViolation(assert.AnError))
	assert.True(t, rls.IsPolicyViolation(rls.ErrPolicyViolation))
}

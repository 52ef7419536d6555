package rls

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Session GUCs read by the policies. They are only ever written by the
// Binder with is_local=true, so a policy can never observe a value that
// outlived its transaction.
const (
	TenantIDsSetting     = "app.tenant_ids"
	AdminOverrideSetting = "app.admin_override"
)

// Policy declares row-level isolation for one tenant-scoped table. It is
// defined once per table at schema time; the predicate is evaluated by
// PostgreSQL on every read and write regardless of what the application
// query looks like.
type Policy struct {
	// Table is the protected table name.
	Table string

	// Column is the tenant id column. Defaults to "tenant_id".
	Column string
}

func (p Policy) column() string {
	if p.Column == "" {
		return "tenant_id"
	}
	return p.Column
}

// Name returns the policy name as created in the database.
func (p Policy) Name() string {
	return p.Table + "_tenant_isolation"
}

// Predicate returns the SQL expression gating row visibility: either the
// bound context carries the admin override, or the row's tenant id is in
// the bound tenant set. Both settings are read with missing_ok=true so an
// unbound session yields an empty set and sees nothing (fail closed).
func (p Policy) Predicate() string {
	return fmt.Sprintf(
		"current_setting('%s', true) = 'true' OR %s::text = ANY (string_to_array(current_setting('%s', true), ','))",
		AdminOverrideSetting, p.column(), TenantIDsSetting)
}

// DDL returns the statements arming the policy: row-level security is
// enabled and forced (so even the table owner cannot bypass it), the old
// policy is dropped, and the predicate is installed for both visibility
// (USING) and writes (WITH CHECK).
func (p Policy) DDL() []string {
	predicate := p.Predicate()
	return []string{
		fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", p.Table),
		fmt.Sprintf("ALTER TABLE %s FORCE ROW LEVEL SECURITY", p.Table),
		fmt.Sprintf("DROP POLICY IF EXISTS %s ON %s", p.Name(), p.Table),
		fmt.Sprintf("CREATE POLICY %s ON %s USING (%s) WITH CHECK (%s)",
			p.Name(), p.Table, predicate, predicate),
	}
}

// Registry collects the policies for all tenant-scoped tables.
type Registry struct {
	policies []Policy
}

// NewRegistry creates a registry with the given policies.
func NewRegistry(policies ...Policy) *Registry {
	return &Registry{policies: policies}
}

// Add registers a policy. Returns the registry for chaining.
func (r *Registry) Add(p Policy) *Registry {
	r.policies = append(r.policies, p)
	return r
}

// Policies returns the registered policies.
func (r *Registry) Policies() []Policy {
	return append([]Policy(nil), r.policies...)
}

// DDL returns the statements for all registered policies.
func (r *Registry) DDL() []string {
	var stmts []string
	for _, p := range r.policies {
		stmts = append(stmts, p.DDL()...)
	}
	return stmts
}

// Apply executes the policy DDL. Idempotent: policies are dropped and
// recreated. Normally the migrations own this; Apply exists for tests and
// for tools that manage policies outside the migration flow.
func (r *Registry) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range r.DDL() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply policy %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

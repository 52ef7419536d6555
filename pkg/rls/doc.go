// Package rls is the storage-layer half of tenant isolation: declarative
// row-level security policies per tenant-scoped table, and the session
// context binder that carries the per-request isolation decision into
// PostgreSQL.
//
// # Defense in depth
//
// Application code filters its queries by tenant; the policies installed by
// this package constrain them again inside the database. A forgotten WHERE
// clause therefore returns no foreign rows instead of leaking them, and a
// mis-scoped write fails with [ErrPolicyViolation].
//
// Policies never consult request state directly. They read two
// transaction-local session settings, app.tenant_ids and
// app.admin_override, which only [Binder.Do] writes:
//
//	binder := rls.NewBinder(pool)
//	err := binder.Do(ctx, func(ctx context.Context, tx pgx.Tx) error {
//		rows, err := tx.Query(ctx, "SELECT id, name FROM sponsors")
//		...
//	})
//
// Do fails closed without a resolved tenancy.RequestContext in ctx, binds
// with is_local=true so a pooled connection cannot retain a previous
// request's scope, and clears the session settings again before releasing
// the connection.
//
// # Declaring policies
//
// Tables declare isolation once, at schema time:
//
//	registry := rls.NewRegistry(
//		rls.Policy{Table: "sponsors"},
//		rls.Policy{Table: "grants"},
//		rls.Policy{Table: "content_items"},
//	)
//
// The generated DDL lives in the migrations; Registry.Apply exists for
// tests and out-of-band tooling.
package rls

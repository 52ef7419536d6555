package rls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grantfox/tenantcore/pkg/tenancy"
)

// Binder carries the request's isolation decision into the storage layer.
// Every tenant-scoped unit of work runs through Do, which binds the
// RequestContext to transaction-local session settings so the row-level
// policies can read it.
//
// The binding is symmetric with resource handling: acquire connection,
// begin transaction, bind, work, finish transaction, clear, release. The
// settings are written with is_local=true, so they cannot survive the
// transaction; the explicit clear before release is a second, redundant
// layer for the case where a driver or pooler keeps transaction state
// alive. A pooled connection therefore never carries a previous request's
// binding.
type Binder struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithBinderLogger sets the structured logger for the binder.
func WithBinderLogger(log *slog.Logger) BinderOption {
	return func(b *Binder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBinder creates a session context binder on top of the pool.
func NewBinder(pool *pgxpool.Pool, opts ...BinderOption) *Binder {
	b := &Binder{
		pool: pool,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TenantIDsValue renders the context's effective tenant set as the GUC
// value read by the policies: a comma-separated id list, empty in the
// admin-override state (the override setting grants visibility instead).
func TenantIDsValue(rc tenancy.RequestContext) string {
	tenants := rc.EffectiveTenants()
	if tenants == nil {
		return ""
	}
	ids := make([]string, len(tenants))
	for i, id := range tenants {
		ids[i] = id.String()
	}
	return strings.Join(ids, ",")
}

// Do runs fn inside a transaction bound to the RequestContext carried by
// ctx. Without a resolved context it fails closed with ErrNoContextBound:
// an unscoped query must never run against tenant-scoped tables.
//
// Policy rejections surface as ErrPolicyViolation. That error means the
// application layer believed an operation was authorized and the storage
// layer disagreed; it is an invariant breach to alert on, not to retry.
func (b *Binder) Do(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return ErrNoContextBound
	}

	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		// Redundant with is_local bindings, kept as defense in depth:
		// the connection returns to the pool with no tenant state even
		// if the transaction machinery misbehaved.
		if _, err := conn.Exec(context.WithoutCancel(ctx),
			"SELECT set_config($1, '', false), set_config($2, '', false)",
			TenantIDsSetting, AdminOverrideSetting); err != nil {
			b.log.ErrorContext(ctx, "failed to clear session binding", slog.Any("error", err))
		}
		conn.Release()
	}()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// No-op after commit; guarantees rollback on error, panic and
		// cancellation paths.
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	override := "false"
	if rc.IsAdminOverride() {
		override = "true"
	}
	if _, err := tx.Exec(ctx,
		"SELECT set_config($1, $2, true), set_config($3, $4, true)",
		TenantIDsSetting, TenantIDsValue(rc),
		AdminOverrideSetting, override); err != nil {
		return fmt.Errorf("bind request context: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if IsPolicyViolation(err) {
			b.log.ErrorContext(ctx, "row-level policy rejected an authorized operation",
				slog.String("user_id", rc.UserID().String()),
				slog.String("tenant_id", rc.TenantID().String()),
				slog.Any("error", err))
			return errors.Join(ErrPolicyViolation, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

package operator

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/audit"
)

const (
	actionOverrideGranted = "admin_override.granted"
	actionOverrideDenied  = "admin_override.denied"
)

// Gate decides whether a user may assume the global admin-override scope.
// Every decision, grant or denial, is written to the audit trail with the
// actor id. The gate always reads the user source directly; override
// eligibility must never be served from a stale cache.
type Gate struct {
	source  UserSource
	auditor audit.Logger
	log     *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithAuditLogger sets the audit sink for override decisions.
func WithAuditLogger(auditor audit.Logger) GateOption {
	return func(g *Gate) {
		if auditor != nil {
			g.auditor = auditor
		}
	}
}

// WithLogger sets the structured logger for the gate.
func WithLogger(log *slog.Logger) GateOption {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGate creates an admin-override gate backed by the given user source.
// Without an explicit audit logger, decisions go to the structured log.
func NewGate(source UserSource, opts ...GateOption) *Gate {
	g := &Gate{
		source: source,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.auditor == nil {
		g.auditor = audit.NewLogger(audit.NewSlogStorage(g.log))
	}
	return g
}

// Authorize grants the override only when the user exists and carries the
// platform-operator flag. The grant applies to the current request only;
// callers must re-authorize on every request.
func (g *Gate) Authorize(ctx context.Context, userID uuid.UUID) error {
	user, err := g.source.GetUser(ctx, userID)
	if err != nil {
		g.deny(ctx, userID, err)
		return ErrOverrideDenied
	}

	if !user.PlatformOperator {
		g.deny(ctx, userID, ErrOverrideDenied)
		return ErrOverrideDenied
	}

	if err := g.auditor.Log(ctx, userID.String(), actionOverrideGranted, audit.ResultSuccess); err != nil {
		g.log.ErrorContext(ctx, "failed to audit override grant",
			slog.String("actor", userID.String()), slog.Any("error", err))
	}
	g.log.InfoContext(ctx, "admin override granted", slog.String("actor", userID.String()))
	return nil
}

func (g *Gate) deny(ctx context.Context, userID uuid.UUID, cause error) {
	if err := g.auditor.Log(ctx, userID.String(), actionOverrideDenied, audit.ResultDenied,
		audit.WithError(cause)); err != nil {
		g.log.ErrorContext(ctx, "failed to audit override denial",
			slog.String("actor", userID.String()), slog.Any("error", err))
	}
	g.log.WarnContext(ctx, "admin override denied",
		slog.String("actor", userID.String()), slog.Any("error", cause))
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStorage persists audit events into the audit_events table.
//
// Audit rows are platform-level records, not tenant data, so they are written
// through the pool directly and carry no row-level policy: an operator
// reviewing an incident must see events across tenants.
type PgStorage struct {
	pool *pgxpool.Pool
}

// NewPgStorage creates a Postgres-backed audit storage.
func NewPgStorage(pool *pgxpool.Pool) *PgStorage {
	return &PgStorage{pool: pool}
}

func (s *PgStorage) Store(ctx context.Context, event Event) error {
	var metadata []byte
	if len(event.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	var tenantID *string
	if event.TenantID != "" {
		tenantID = &event.TenantID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_events (id, actor, action, tenant_id, result, error, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Actor, event.Action, tenantID,
		string(event.Result), event.Error, metadata, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("store audit event: %w", err)
	}
	return nil
}

// SlogStorage writes audit events to a structured logger. Used as a fallback
// sink when no database is wired, and in tests.
type SlogStorage struct {
	log *slog.Logger
}

// NewSlogStorage creates a logger-backed audit storage.
func NewSlogStorage(log *slog.Logger) *SlogStorage {
	if log == nil {
		log = slog.Default()
	}
	return &SlogStorage{log: log}
}

func (s *SlogStorage) Store(ctx context.Context, event Event) error {
	attrs := []any{
		slog.String("audit_id", event.ID),
		slog.String("actor", event.Actor),
		slog.String("action", event.Action),
		slog.String("result", string(event.Result)),
	}
	if event.TenantID != "" {
		attrs = append(attrs, slog.String("tenant_id", event.TenantID))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	}

	if event.Result == ResultSuccess {
		s.log.InfoContext(ctx, "audit event", attrs...)
	} else {
		s.log.WarnContext(ctx, "audit event", attrs...)
	}
	return nil
}

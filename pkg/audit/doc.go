// Package audit records security-relevant events: admin-override requests,
// membership changes, and policy violations.
//
// Events are attributable (actor id is mandatory) and append-only. Two
// storage sinks are provided: [PgStorage] for the audit_events table and
// [SlogStorage] for deployments that ship audit records through the log
// pipeline instead.
//
//	auditor := audit.NewLogger(audit.NewPgStorage(pool))
//	_ = auditor.Log(ctx, actorID, "admin_override.granted", audit.ResultSuccess)
package audit

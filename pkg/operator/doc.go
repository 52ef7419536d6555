// Package operator gates the global admin-override capability.
//
// Admin override lets a platform operator act across all tenants. It is a
// capability of the [User] record (the PlatformOperator flag), orthogonal to
// per-tenant roles: owning a tenant grants nothing here. Grants are strictly
// per-request and every decision is written to the audit trail with the
// actor id, so each use of the escape hatch is attributable.
package operator

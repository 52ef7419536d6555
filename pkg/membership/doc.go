// Package membership is the authoritative directory of which users belong to
// which tenants and with what role.
//
// The [Directory] interface has two production implementations: the
// Postgres-backed [Store] and the in-memory [MemoryStore]. For hot paths the
// [CachedDirectory] decorator serves reads from a bounded-TTL cache
// (per-process by default, Redis-backed via [NewRedisCache] for multi-node
// deployments) and invalidates a user's entry synchronously whenever their
// memberships change, so revocation takes effect immediately on the writing
// node and within the TTL everywhere else.
//
// Memberships are never hard-deleted. Revocation flips the active flag and
// keeps the row, preserving the grant history for audit.
//
// # Usage
//
//	store := membership.NewStore(pool)
//	dir := membership.NewCachedDirectory(store,
//		membership.WithCacheTTL(30*time.Second),
//		membership.WithCache(membership.NewRedisCache(redisClient, "")),
//	)
//
//	if err := dir.Add(ctx, userID, tenantID, role.Manager); err != nil {
//		// membership.ErrDuplicateMembership if already an active member
//	}
package membership

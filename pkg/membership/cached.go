package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/role"
)

// DefaultCacheTTL bounds how long a stale membership list can be served.
// Revocation is invalidated synchronously on the node that performed it;
// on other nodes it takes effect within this TTL.
const DefaultCacheTTL = 30 * time.Second

// CachedDirectory is a read-through caching decorator around a Directory.
// ListTenants and RoleFor are served from the cache; Add and Revoke write
// through and invalidate the user's entry before returning, so a revocation
// is immediately visible to new resolutions.
type CachedDirectory struct {
	inner Directory
	cache Cache
	ttl   time.Duration
}

// CachedOption configures a CachedDirectory.
type CachedOption func(*CachedDirectory)

// WithCacheTTL overrides the default cache TTL.
func WithCacheTTL(ttl time.Duration) CachedOption {
	return func(d *CachedDirectory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithCache sets a custom cache implementation (e.g. Redis).
func WithCache(cache Cache) CachedOption {
	return func(d *CachedDirectory) {
		if cache != nil {
			d.cache = cache
		}
	}
}

// NewCachedDirectory wraps a Directory with a bounded-TTL read cache.
func NewCachedDirectory(inner Directory, opts ...CachedOption) *CachedDirectory {
	d := &CachedDirectory{
		inner: inner,
		cache: NewInMemoryCache(),
		ttl:   DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *CachedDirectory) Add(ctx context.Context, userID, tenantID uuid.UUID, r role.Role) error {
	if err := d.inner.Add(ctx, userID, tenantID, r); err != nil {
		return err
	}
	d.cache.Delete(ctx, userID)
	return nil
}

func (d *CachedDirectory) Revoke(ctx context.Context, userID, tenantID uuid.UUID) error {
	if err := d.inner.Revoke(ctx, userID, tenantID); err != nil {
		return err
	}
	d.cache.Delete(ctx, userID)
	return nil
}

func (d *CachedDirectory) ListTenants(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	if cached, ok := d.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	memberships, err := d.inner.ListTenants(ctx, userID)
	if err != nil {
		return nil, err
	}

	d.cache.Set(ctx, userID, memberships, d.ttl)
	return memberships, nil
}

func (d *CachedDirectory) RoleFor(ctx context.Context, userID, tenantID uuid.UUID) (role.Role, error) {
	// Served from the same per-user list as ListTenants so one invalidation
	// covers both read paths.
	memberships, err := d.ListTenants(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, m := range memberships {
		if m.TenantID == tenantID {
			return m.Role, nil
		}
	}
	return "", ErrNotAMember
}

// Close releases the underlying cache resources.
func (d *CachedDirectory) Close() error {
	return d.cache.Close()
}

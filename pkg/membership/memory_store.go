package membership

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grantfox/tenantcore/pkg/role"
)

// MemoryStore is a mutex-guarded in-memory Directory for tests and
// single-node deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[memberKey]*Membership
}

type memberKey struct {
	user   uuid.UUID
	tenant uuid.UUID
}

// NewMemoryStore creates an empty in-memory membership directory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[memberKey]*Membership),
	}
}

func (s *MemoryStore) Add(ctx context.Context, userID, tenantID uuid.UUID, r role.Role) error {
	if userID == uuid.Nil || tenantID == uuid.Nil || !r.Valid() {
		return ErrInvalidMembership
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{user: userID, tenant: tenantID}
	now := time.Now()

	if existing, ok := s.entries[key]; ok {
		if existing.Active {
			return ErrDuplicateMembership
		}
		existing.Role = r
		existing.Active = true
		existing.UpdatedAt = now
		return nil
	}

	s.entries[key] = &Membership{
		UserID:    userID,
		TenantID:  tenantID,
		Role:      r,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *MemoryStore) Revoke(ctx context.Context, userID, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.entries[memberKey{user: userID, tenant: tenantID}]; ok && m.Active {
		m.Active = false
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (s *MemoryStore) ListTenants(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Membership
	for key, m := range s.entries {
		if key.user == userID && m.Active {
			result = append(result, *m)
		}
	}

	slices.SortFunc(result, func(a, b Membership) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.TenantID.String(), b.TenantID.String())
	})

	return result, nil
}

func (s *MemoryStore) RoleFor(ctx context.Context, userID, tenantID uuid.UUID) (role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.entries[memberKey{user: userID, tenant: tenantID}]
	if !ok || !m.Active {
		return "", ErrNotAMember
	}
	return m.Role, nil
}

package operator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// User is the platform-level identity. The PlatformOperator flag is the
// single source of truth for admin-override eligibility; it is a normal
// column set through an administrative workflow, orthogonal to any
// per-tenant role.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	PlatformOperator bool      `json:"platform_operator"`
	CreatedAt        time.Time `json:"created_at"`
}

// UserSource loads users. Implementations must serve fresh data: override
// decisions are never made from a cache.
type UserSource interface {
	// GetUser returns the user, or ErrUserNotFound.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

// MemorySource is an in-memory UserSource for tests and small deployments.
type MemorySource struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewMemorySource creates an empty in-memory user source.
func NewMemorySource() *MemorySource {
	return &MemorySource{users: make(map[uuid.UUID]User)}
}

// Put adds or replaces a user.
func (s *MemorySource) Put(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *MemorySource) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

package sponsors

import (
	"time"

	"github.com/google/uuid"
)

// Sponsor is a tenant-scoped funding partner record. TenantID is set at
// creation from the request context and never changes afterwards; the
// storage layer and a database trigger both enforce that.
type Sponsor struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

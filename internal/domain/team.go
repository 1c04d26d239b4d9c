package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team is a department owned by exactly one tenant. TenantID is immutable
// after creation; there is no cross-tenant move. Team names are not unique.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TenantID  uuid.UUID `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an organization. The OTP is its shared join code: anyone who
// knows it can register into the tenant. It is long-lived and multi-use,
// and only replaced by an explicit regeneration.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OTP       string    `json:"otp"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantUpdate carries a partial update. Nil fields are left unchanged.
type TenantUpdate struct {
	Name *string
	OTP  *string
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User belongs to exactly one tenant and one team, and the team must belong
// to the same tenant. A user is admin iff they created their tenant during
// registration.
type User struct {
	ID           uuid.UUID `json:"id"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TenantID     uuid.UUID `json:"tenant_id"`
	TeamID       uuid.UUID `json:"team_id"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserUpdate replaces every mutable field of a user. Password is the new
// plaintext and is re-hashed before persisting.
type UserUpdate struct {
	Fullname string
	Email    string
	Password string
	TenantID uuid.UUID
	TeamID   uuid.UUID
	Role     Role
}

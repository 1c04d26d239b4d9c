package domain

import (
	"context"

	"github.com/google/uuid"
)

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetByOTP(ctx context.Context, otp string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Update(ctx context.Context, id uuid.UUID, upd TenantUpdate) (*Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type TeamStore interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Team, error)
	List(ctx context.Context) ([]Team, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

// Stores bundles the three directories so a Transactor can hand out
// transaction-scoped instances to a provisioning callback.
type Stores struct {
	Tenants TenantStore
	Teams   TeamStore
	Users   UserStore
}

// Transactor runs fn against stores bound to a single transaction. If fn
// returns an error the whole transaction rolls back, so a mid-sequence
// failure never leaves an orphan tenant or team behind.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}

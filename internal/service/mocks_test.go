package service

import (
	"context"
	"errors"
	"time"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/store"
	"github.com/google/uuid"
)

// memStores is a shared in-memory backing for the mock stores, with the same
// conflict semantics the unique indexes provide in postgres.
type memStores struct {
	tenants map[uuid.UUID]*domain.Tenant
	teams   map[uuid.UUID]*domain.Team
	users   map[uuid.UUID]*domain.User

	failTeamCreate bool
}

func newMemStores() *memStores {
	return &memStores{
		tenants: make(map[uuid.UUID]*domain.Tenant),
		teams:   make(map[uuid.UUID]*domain.Team),
		users:   make(map[uuid.UUID]*domain.User),
	}
}

func (m *memStores) clone() *memStores {
	c := newMemStores()
	c.failTeamCreate = m.failTeamCreate
	for id, t := range m.tenants {
		cp := *t
		c.tenants[id] = &cp
	}
	for id, t := range m.teams {
		cp := *t
		c.teams[id] = &cp
	}
	for id, u := range m.users {
		cp := *u
		c.users[id] = &cp
	}
	return c
}

func (m *memStores) restore(from *memStores) {
	m.tenants = from.tenants
	m.teams = from.teams
	m.users = from.users
}

func (m *memStores) stores() domain.Stores {
	return domain.Stores{
		Tenants: &memTenantStore{m},
		Teams:   &memTeamStore{m},
		Users:   &memUserStore{m},
	}
}

// memTransactor snapshots state before the callback and restores it on
// error, mimicking transaction rollback.
type memTransactor struct {
	m *memStores
}

func (t *memTransactor) WithinTx(ctx context.Context, fn func(s domain.Stores) error) error {
	snapshot := t.m.clone()
	if err := fn(t.m.stores()); err != nil {
		t.m.restore(snapshot)
		return err
	}
	return nil
}

type memTenantStore struct {
	m *memStores
}

func (s *memTenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	for _, existing := range s.m.tenants {
		if existing.OTP == t.OTP {
			return store.ErrConflict
		}
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	cp := *t
	s.m.tenants[t.ID] = &cp
	return nil
}

func (s *memTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, ok := s.m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTenantStore) GetByOTP(ctx context.Context, otp string) (*domain.Tenant, error) {
	for _, t := range s.m.tenants {
		if t.OTP == otp {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memTenantStore) List(ctx context.Context) ([]domain.Tenant, error) {
	var out []domain.Tenant
	for _, t := range s.m.tenants {
		out = append(out, *t)
	}
	return out, nil
}

func (s *memTenantStore) Update(ctx context.Context, id uuid.UUID, upd domain.TenantUpdate) (*domain.Tenant, error) {
	t, ok := s.m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.OTP != nil {
		for otherID, other := range s.m.tenants {
			if otherID != id && other.OTP == *upd.OTP {
				return nil, store.ErrConflict
			}
		}
		t.OTP = *upd.OTP
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	cp := *t
	return &cp, nil
}

func (s *memTenantStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.m.tenants[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.tenants, id)
	return nil
}

func (s *memTenantStore) DeleteAll(ctx context.Context) error {
	s.m.tenants = make(map[uuid.UUID]*domain.Tenant)
	return nil
}

type memTeamStore struct {
	m *memStores
}

func (s *memTeamStore) Create(ctx context.Context, t *domain.Team) error {
	if s.m.failTeamCreate {
		return errors.New("simulated write failure")
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	cp := *t
	s.m.teams[t.ID] = &cp
	return nil
}

func (s *memTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	t, ok := s.m.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTeamStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Team, error) {
	var out []domain.Team
	for _, t := range s.m.teams {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTeamStore) List(ctx context.Context) ([]domain.Team, error) {
	var out []domain.Team
	for _, t := range s.m.teams {
		out = append(out, *t)
	}
	return out, nil
}

func (s *memTeamStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Team, error) {
	t, ok := s.m.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t.Name = name
	cp := *t
	return &cp, nil
}

func (s *memTeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.m.teams[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.teams, id)
	return nil
}

func (s *memTeamStore) DeleteAll(ctx context.Context) error {
	s.m.teams = make(map[uuid.UUID]*domain.Team)
	return nil
}

type memUserStore struct {
	m *memStores
}

func (s *memUserStore) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range s.m.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	s.m.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range s.m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memUserStore) Update(ctx context.Context, u *domain.User) error {
	existing, ok := s.m.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	for otherID, other := range s.m.users {
		if otherID != u.ID && other.Email == u.Email {
			return store.ErrConflict
		}
	}
	*existing = *u
	existing.CreatedAt = u.CreatedAt
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.users, id)
	return nil
}

func (s *memUserStore) DeleteAll(ctx context.Context) error {
	s.m.users = make(map[uuid.UUID]*domain.User)
	return nil
}

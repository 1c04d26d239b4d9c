package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantStore struct {
	db DB
}

func NewTenantStore(db DB) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO tenants (name, otp) VALUES ($1, $2)
		 RETURNING id, created_at`,
		t.Name, t.OTP,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, otp, created_at FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.OTP, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) GetByOTP(ctx context.Context, otp string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, otp, created_at FROM tenants WHERE otp = $1`,
		otp,
	).Scan(&t.ID, &t.Name, &t.OTP, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) List(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, otp, created_at FROM tenants ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.OTP, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// Update applies a partial update; nil fields keep their stored value. The
// old OTP stops resolving the instant a new one commits.
func (s *TenantStore) Update(ctx context.Context, id uuid.UUID, upd domain.TenantUpdate) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`UPDATE tenants
		 SET name = COALESCE($2, name), otp = COALESCE($3, otp)
		 WHERE id = $1
		 RETURNING id, name, otp, created_at`,
		id, upd.Name, upd.OTP,
	).Scan(&t.ID, &t.Name, &t.OTP, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TenantStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tenants`)
	return err
}

package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TeamStore struct {
	db DB
}

func NewTeamStore(db DB) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) Create(ctx context.Context, t *domain.Team) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO teams (name, tenant_id) VALUES ($1, $2)
		 RETURNING id, created_at`,
		t.Name, t.TenantID,
	).Scan(&t.ID, &t.CreatedAt)
}

func (s *TeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	t := &domain.Team{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, tenant_id, created_at FROM teams WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.TenantID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Team, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, tenant_id, created_at
		 FROM teams WHERE tenant_id = $1
		 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (s *TeamStore) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, tenant_id, created_at FROM teams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func scanTeams(rows pgx.Rows) ([]domain.Team, error) {
	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.TenantID, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// UpdateName is the only team mutation; tenant_id is immutable after creation.
func (s *TeamStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Team, error) {
	t := &domain.Team{}
	err := s.db.QueryRow(ctx,
		`UPDATE teams SET name = $2 WHERE id = $1
		 RETURNING id, name, tenant_id, created_at`,
		id, name,
	).Scan(&t.ID, &t.Name, &t.TenantID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TeamStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM teams`)
	return err
}

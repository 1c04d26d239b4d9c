package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (fullname, email, password_hash, tenant_id, team_id, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Fullname, u.Email, u.PasswordHash, u.TenantID, u.TeamID, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getBy(ctx, `id = $1`, id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getBy(ctx, `email = $1`, email)
}

func (s *UserStore) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, fullname, email, password_hash, tenant_id, team_id, role, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Fullname, &u.Email, &u.PasswordHash, &u.TenantID, &u.TeamID, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, fullname, email, password_hash, tenant_id, team_id, role, created_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Fullname, &u.Email, &u.PasswordHash, &u.TenantID, &u.TeamID, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *UserStore) Update(ctx context.Context, u *domain.User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users
		 SET fullname = $2, email = $3, password_hash = $4, tenant_id = $5, team_id = $6, role = $7
		 WHERE id = $1`,
		u.ID, u.Fullname, u.Email, u.PasswordHash, u.TenantID, u.TeamID, u.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM users`)
	return err
}

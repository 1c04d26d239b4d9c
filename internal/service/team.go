package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrTeamNotFound = errors.New("team not found")

// DefaultTeamName is the team bootstrapped under every newly created tenant.
const DefaultTeamName = "General"

type TeamService struct {
	teams   domain.TeamStore
	tenants domain.TenantStore
	logger  *zap.Logger
}

func NewTeamService(teams domain.TeamStore, tenants domain.TenantStore, logger *zap.Logger) *TeamService {
	return &TeamService{teams: teams, tenants: tenants, logger: logger}
}

func (s *TeamService) Create(ctx context.Context, name string, tenantID uuid.UUID) (*domain.Team, error) {
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	t := &domain.Team{Name: name, TenantID: tenantID}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Team, error) {
	return s.teams.ListByTenant(ctx, tenantID)
}

func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	return s.teams.List(ctx)
}

func (s *TeamService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Team, error) {
	t, err := s.teams.UpdateName(ctx, id, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.teams.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTeamNotFound
	}
	return err
}

func (s *TeamService) DeleteAll(ctx context.Context) error {
	return s.teams.DeleteAll(ctx)
}

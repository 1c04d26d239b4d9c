package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestTeamService(m *memStores) *TeamService {
	stores := m.stores()
	return NewTeamService(stores.Teams, stores.Tenants, zap.NewNop())
}

func TestTeamService_Create(t *testing.T) {
	m := newMemStores()
	tenant, _ := seedTenantWithTeam(m, "Acme", "ABC123")
	s := newTestTeamService(m)

	team, err := s.Create(context.Background(), "Engineering", tenant.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if team.ID == uuid.Nil {
		t.Fatal("expected team ID to be set")
	}
	if team.TenantID != tenant.ID {
		t.Fatal("expected team to belong to the tenant")
	}
}

func TestTeamService_CreateMissingTenant(t *testing.T) {
	s := newTestTeamService(newMemStores())

	if _, err := s.Create(context.Background(), "Engineering", uuid.New()); err != ErrTenantNotFound {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestTeamService_DuplicateNamesAllowed(t *testing.T) {
	m := newMemStores()
	tenant, _ := seedTenantWithTeam(m, "Acme", "ABC123")
	s := newTestTeamService(m)
	ctx := context.Background()

	if _, err := s.Create(ctx, "Engineering", tenant.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := s.Create(ctx, "Engineering", tenant.ID); err != nil {
		t.Fatalf("expected duplicate team names to be allowed, got %v", err)
	}
}

func TestTeamService_ListByTenant(t *testing.T) {
	m := newMemStores()
	tenant, seeded := seedTenantWithTeam(m, "Acme", "ABC123")
	other, _ := seedTenantWithTeam(m, "Globex", "XYZ789")
	s := newTestTeamService(m)
	ctx := context.Background()

	if _, err := s.Create(ctx, "Engineering", tenant.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	teams, err := s.ListByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	for _, team := range teams {
		if team.TenantID != tenant.ID {
			t.Fatal("expected only the tenant's own teams")
		}
		if team.ID == seeded.ID && team.Name != DefaultTeamName {
			t.Fatalf("expected seeded default team name, got %q", team.Name)
		}
	}

	otherTeams, err := s.ListByTenant(ctx, other.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(otherTeams) != 1 {
		t.Fatalf("expected 1 team for the other tenant, got %d", len(otherTeams))
	}
}

func TestTeamService_UpdateNameMissingTeam(t *testing.T) {
	s := newTestTeamService(newMemStores())

	if _, err := s.UpdateName(context.Background(), uuid.New(), "Engineering"); err != ErrTeamNotFound {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestTenantService(m *memStores) *TenantService {
	return NewTenantService(m.stores().Tenants, zap.NewNop())
}

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(otp) != otpLength {
		t.Fatalf("expected length %d, got %d", otpLength, len(otp))
	}
	for _, c := range otp {
		if !strings.ContainsRune(otpAlphabet, c) {
			t.Fatalf("unexpected character %q in otp %q", c, otp)
		}
	}
}

func TestTenantService_CreateDuplicateOTP(t *testing.T) {
	s := newTestTenantService(newMemStores())
	ctx := context.Background()

	if _, err := s.Create(ctx, "Acme", "ABC123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := s.Create(ctx, "Globex", "ABC123"); err != ErrOTPTaken {
		t.Fatalf("expected ErrOTPTaken, got %v", err)
	}
}

func TestTenantService_RegenerateOTP(t *testing.T) {
	s := newTestTenantService(newMemStores())
	ctx := context.Background()

	tenant, err := s.Create(ctx, "Acme", "ABC123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	first, err := s.RegenerateOTP(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.OTP == "ABC123" {
		t.Fatal("expected regeneration to replace the otp")
	}

	second, err := s.RegenerateOTP(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.OTP == first.OTP {
		t.Fatal("expected a fresh otp on each regeneration")
	}

	// Retired codes stop resolving.
	if _, err := s.VerifyOTP(ctx, first.OTP); err != ErrOTPInvalid {
		t.Fatalf("expected ErrOTPInvalid for retired otp, got %v", err)
	}
	if _, err := s.VerifyOTP(ctx, second.OTP); err != nil {
		t.Fatalf("expected current otp to resolve, got %v", err)
	}
}

func TestTenantService_RegenerateOTPMissingTenant(t *testing.T) {
	s := newTestTenantService(newMemStores())

	if _, err := s.RegenerateOTP(context.Background(), uuid.New()); err != ErrTenantNotFound {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestTenantService_VerifyOTPIsMultiUse(t *testing.T) {
	s := newTestTenantService(newMemStores())
	ctx := context.Background()

	tenant, err := s.Create(ctx, "Acme", "ABC123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for i := 0; i < 3; i++ {
		resolved, err := s.VerifyOTP(ctx, "ABC123")
		if err != nil {
			t.Fatalf("expected otp to stay valid, got %v", err)
		}
		if resolved.ID != tenant.ID {
			t.Fatal("expected otp to resolve to the same tenant")
		}
	}
}

func TestTenantService_UpdatePartial(t *testing.T) {
	s := newTestTenantService(newMemStores())
	ctx := context.Background()

	tenant, err := s.Create(ctx, "Acme", "ABC123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	name := "Acme Corp"
	updated, err := s.Update(ctx, tenant.ID, domain.TenantUpdate{Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name != "Acme Corp" {
		t.Fatalf("expected name update, got %q", updated.Name)
	}
	if updated.OTP != "ABC123" {
		t.Fatalf("expected otp untouched, got %q", updated.OTP)
	}
}

func TestTenantService_UpdateOTPCollision(t *testing.T) {
	s := newTestTenantService(newMemStores())
	ctx := context.Background()

	if _, err := s.Create(ctx, "Acme", "ABC123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	other, err := s.Create(ctx, "Globex", "XYZ789")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	taken := "ABC123"
	if _, err := s.Update(ctx, other.ID, domain.TenantUpdate{OTP: &taken}); err != ErrOTPTaken {
		t.Fatalf("expected ErrOTPTaken, got %v", err)
	}

	// Re-submitting a tenant's own otp is not a collision.
	own := "XYZ789"
	if _, err := s.Update(ctx, other.ID, domain.TenantUpdate{OTP: &own}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTenantService_UpdateMissingTenant(t *testing.T) {
	s := newTestTenantService(newMemStores())

	name := "Acme"
	if _, err := s.Update(context.Background(), uuid.New(), domain.TenantUpdate{Name: &name}); err != ErrTenantNotFound {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

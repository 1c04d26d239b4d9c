package service

import (
	"context"
	"crypto/rand"
	"errors"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrOTPTaken       = errors.New("otp already exists, choose another")
	ErrOTPInvalid     = errors.New("otp invalid")
)

const (
	otpAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	otpLength   = 6

	// otpRetries bounds regeneration attempts when a freshly generated
	// code happens to collide with an existing tenant.
	otpRetries = 5
)

// GenerateOTP produces a random 6-character uppercase alphanumeric join
// code. Generation alone does not guarantee uniqueness; callers must check
// against the directory and retry or reject on collision.
func GenerateOTP() (string, error) {
	b := make([]byte, otpLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = otpAlphabet[int(b[i])%len(otpAlphabet)]
	}
	return string(b), nil
}

type TenantService struct {
	tenants domain.TenantStore
	logger  *zap.Logger
}

func NewTenantService(tenants domain.TenantStore, logger *zap.Logger) *TenantService {
	return &TenantService{tenants: tenants, logger: logger}
}

func (s *TenantService) Create(ctx context.Context, name, otp string) (*domain.Tenant, error) {
	if err := s.checkOTPFree(ctx, otp, uuid.Nil); err != nil {
		return nil, err
	}

	t := &domain.Tenant{Name: name, OTP: otp}
	if err := s.tenants.Create(ctx, t); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrOTPTaken
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantService) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.tenants.List(ctx)
}

func (s *TenantService) Update(ctx context.Context, id uuid.UUID, upd domain.TenantUpdate) (*domain.Tenant, error) {
	if upd.OTP != nil {
		if err := s.checkOTPFree(ctx, *upd.OTP, id); err != nil {
			return nil, err
		}
	}

	t, err := s.tenants.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrTenantNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrOTPTaken
		}
		return nil, err
	}
	return t, nil
}

// RegenerateOTP replaces the tenant's join code with a fresh one. The old
// code stops resolving the moment the update commits.
func (s *TenantService) RegenerateOTP(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	for attempt := 0; attempt < otpRetries; attempt++ {
		otp, err := GenerateOTP()
		if err != nil {
			return nil, err
		}

		t, err := s.tenants.Update(ctx, id, domain.TenantUpdate{OTP: &otp})
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrTenantNotFound
			}
			return nil, err
		}
		s.logger.Info("tenant otp regenerated", zap.String("tenant_id", id.String()))
		return t, nil
	}
	return nil, ErrOTPTaken
}

// VerifyOTP resolves a join code to its tenant. Verification never consumes
// the code; it stays valid until explicitly regenerated.
func (s *TenantService) VerifyOTP(ctx context.Context, otp string) (*domain.Tenant, error) {
	t, err := s.tenants.GetByOTP(ctx, otp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOTPInvalid
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tenants.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTenantNotFound
	}
	return err
}

func (s *TenantService) DeleteAll(ctx context.Context) error {
	return s.tenants.DeleteAll(ctx)
}

// checkOTPFree is the fast-path collision check; the unique index on
// tenants.otp remains the authority under concurrent writes.
func (s *TenantService) checkOTPFree(ctx context.Context, otp string, selfID uuid.UUID) error {
	existing, err := s.tenants.GetByOTP(ctx, otp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrOTPTaken
	}
	return nil
}

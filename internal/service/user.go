package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/orgdesk/internal/auth"
	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken   = errors.New("email already used")
	ErrOTPRequired  = errors.New("otp is required when joining an existing organization")
	ErrTeamRequired = errors.New("team is required when joining an existing organization")
	ErrTeamMismatch = errors.New("team does not belong to this organization")
	ErrUserNotFound = errors.New("user not found")

	// ErrBadCredentials is deliberately identical for an unknown email and a
	// wrong password, so login errors cannot enumerate accounts.
	ErrBadCredentials = errors.New("email or password incorrect")
)

// RegisterInput is one registration attempt. CreateTenant with a TenantName
// provisions a new organization; otherwise OTP and TeamID select an existing
// one.
type RegisterInput struct {
	Fullname string
	Email    string
	Password string

	CreateTenant bool
	TenantName   string
	OTP          string
	TeamID       uuid.UUID
}

// AuthResult is a provisioned or authenticated user plus their bearer token.
type AuthResult struct {
	User  *domain.User
	Token string
}

type UserService struct {
	users   domain.UserStore
	tenants domain.TenantStore
	teams   domain.TeamStore
	tx      domain.Transactor
	tokens  *auth.TokenIssuer
	logger  *zap.Logger
}

func NewUserService(users domain.UserStore, tenants domain.TenantStore, teams domain.TeamStore, tx domain.Transactor, tokens *auth.TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{users: users, tenants: tenants, teams: teams, tx: tx, tokens: tokens, logger: logger}
}

// Register runs the onboarding decision: either provision a brand-new tenant
// (with its "General" team and an admin user) or join an existing tenant
// resolved by OTP with an explicit team selection.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	var user *domain.User
	var err error
	if in.CreateTenant && in.TenantName != "" {
		user, err = s.registerWithNewTenant(ctx, in)
	} else {
		user, err = s.registerIntoTenant(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("tenant_id", user.TenantID.String()),
	)
	return &AuthResult{User: user, Token: token}, nil
}

// registerWithNewTenant creates tenant, default team and admin user in a
// single transaction; a failure at any step leaves no orphan rows behind.
func (s *UserService) registerWithNewTenant(ctx context.Context, in RegisterInput) (*domain.User, error) {
	otp := in.OTP
	if otp == "" {
		var err error
		if otp, err = GenerateOTP(); err != nil {
			return nil, err
		}
	}
	if _, err := s.tenants.GetByOTP(ctx, otp); err == nil {
		return nil, ErrOTPTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	err = s.tx.WithinTx(ctx, func(st domain.Stores) error {
		tenant := &domain.Tenant{Name: in.TenantName, OTP: otp}
		if err := st.Tenants.Create(ctx, tenant); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrOTPTaken
			}
			return err
		}

		team := &domain.Team{Name: DefaultTeamName, TenantID: tenant.ID}
		if err := st.Teams.Create(ctx, team); err != nil {
			return err
		}

		user = &domain.User{
			Fullname:     in.Fullname,
			Email:        in.Email,
			PasswordHash: hash,
			TenantID:     tenant.ID,
			TeamID:       team.ID,
			Role:         domain.RoleAdmin,
		}
		if err := st.Users.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) registerIntoTenant(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.OTP == "" {
		return nil, ErrOTPRequired
	}
	tenant, err := s.tenants.GetByOTP(ctx, in.OTP)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOTPInvalid
		}
		return nil, err
	}

	if in.TeamID == uuid.Nil {
		return nil, ErrTeamRequired
	}
	team, err := s.teams.GetByID(ctx, in.TeamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamMismatch
		}
		return nil, err
	}
	// A mismatched team is a validation failure, never silently reassigned.
	if team.TenantID != tenant.ID {
		return nil, ErrTeamMismatch
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: hash,
		TenantID:     tenant.ID,
		TeamID:       team.ID,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Update replaces a user's profile. Team/tenant consistency is enforced the
// same way as at registration.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	team, err := s.teams.GetByID(ctx, upd.TeamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamMismatch
		}
		return nil, err
	}
	if team.TenantID != upd.TenantID {
		return nil, ErrTeamMismatch
	}

	hash, err := auth.HashPassword(upd.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           id,
		Fullname:     upd.Fullname,
		Email:        upd.Email,
		PasswordHash: hash,
		TenantID:     upd.TenantID,
		TeamID:       upd.TeamID,
		Role:         upd.Role,
	}
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) DeleteAll(ctx context.Context) error {
	return s.users.DeleteAll(ctx)
}

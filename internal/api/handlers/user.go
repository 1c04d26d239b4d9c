package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/orgdesk/internal/api/middleware"
	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc    *service.UserService
	logger *zap.Logger
}

func NewUserHandler(svc *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type registerRequest struct {
	Fullname     string `json:"fullname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CreateTenant bool   `json:"create_tenant"`
	TenantName   string `json:"tenant_name"`
	OTP          string `json:"otp"`
	TeamID       string `json:"team_id"`
}

// validate aggregates every field problem in one pass, mirroring the
// behaviour clients already depend on.
func (r *registerRequest) validate() (service.RegisterInput, []fieldError) {
	var errs []fieldError
	if r.Fullname == "" {
		errs = append(errs, fieldError{Field: "fullname", Message: "fullname is required"})
	}
	if !validEmail(r.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "email is invalid"})
	}
	if len(r.Password) < minPasswordLen {
		errs = append(errs, fieldError{Field: "password", Message: "password must be at least 6 characters"})
	}

	in := service.RegisterInput{
		Fullname:     r.Fullname,
		Email:        r.Email,
		Password:     r.Password,
		CreateTenant: r.CreateTenant,
		TenantName:   r.TenantName,
		OTP:          r.OTP,
	}

	if r.CreateTenant {
		if r.TenantName == "" {
			errs = append(errs, fieldError{Field: "tenant_name", Message: "tenant name is required when creating a new organization"})
		}
	} else {
		if r.OTP == "" {
			errs = append(errs, fieldError{Field: "otp", Message: "otp is required when joining an existing organization"})
		}
		if r.TeamID == "" {
			errs = append(errs, fieldError{Field: "team_id", Message: "team id is required when joining an existing organization"})
		} else {
			id, err := uuid.Parse(r.TeamID)
			if err != nil {
				errs = append(errs, fieldError{Field: "team_id", Message: "team id is invalid"})
			} else {
				in.TeamID = id
			}
		}
	}
	return in, errs
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, errs := req.validate()
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	result, err := h.svc.Register(r.Context(), in)
	if err != nil {
		if isRegistrationRejection(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	writeData(w, http.StatusCreated, "registration successful", authResponse{
		User:  result.User,
		Token: result.Token,
	})
}

func isRegistrationRejection(err error) bool {
	return errors.Is(err, service.ErrEmailTaken) ||
		errors.Is(err, service.ErrOTPTaken) ||
		errors.Is(err, service.ErrOTPInvalid) ||
		errors.Is(err, service.ErrOTPRequired) ||
		errors.Is(err, service.ErrTeamRequired) ||
		errors.Is(err, service.ErrTeamMismatch)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() []fieldError {
	var errs []fieldError
	if !validEmail(r.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "email is invalid"})
	}
	if r.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeData(w, http.StatusOK, "login successful", authResponse{
		User:  result.User,
		Token: result.Token,
	})
}

// Me resolves the authenticated user from the bearer token. Clients use it
// to revalidate a stored session before trusting it.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.svc.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load current user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load current user")
		return
	}

	writeData(w, http.StatusOK, "", user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeData(w, http.StatusOK, "", users)
}

type updateUserRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
	TeamID   string `json:"team_id"`
	Role     string `json:"role"`
}

func (r *updateUserRequest) validate() (domain.UserUpdate, []fieldError) {
	var errs []fieldError
	if r.Fullname == "" {
		errs = append(errs, fieldError{Field: "fullname", Message: "fullname is required"})
	}
	if !validEmail(r.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "email is invalid"})
	}
	if len(r.Password) < minPasswordLen {
		errs = append(errs, fieldError{Field: "password", Message: "password must be at least 6 characters"})
	}

	upd := domain.UserUpdate{
		Fullname: r.Fullname,
		Email:    r.Email,
		Password: r.Password,
	}

	tenantID, err := uuid.Parse(r.TenantID)
	if err != nil {
		errs = append(errs, fieldError{Field: "tenant_id", Message: "tenant id is invalid"})
	} else {
		upd.TenantID = tenantID
	}
	teamID, err := uuid.Parse(r.TeamID)
	if err != nil {
		errs = append(errs, fieldError{Field: "team_id", Message: "team id is invalid"})
	} else {
		upd.TeamID = teamID
	}

	switch domain.Role(r.Role) {
	case domain.RoleAdmin, domain.RoleUser:
		upd.Role = domain.Role(r.Role)
	default:
		errs = append(errs, fieldError{Field: "role", Message: "role must be admin or user"})
	}
	return upd, errs
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd, errs := req.validate()
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTeamMismatch), errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update user", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	writeData(w, http.StatusOK, "user updated", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to delete user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	writeData(w, http.StatusOK, "user deleted", nil)
}

func (h *UserHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAll(r.Context()); err != nil {
		h.logger.Error("failed to delete users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete users")
		return
	}
	writeData(w, http.StatusOK, "all users deleted", nil)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	otpMinLen = 6
	otpMaxLen = 10
)

type TenantHandler struct {
	svc    *service.TenantService
	logger *zap.Logger
}

func NewTenantHandler(svc *service.TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{svc: svc, logger: logger}
}

type createTenantRequest struct {
	Name string `json:"name"`
	OTP  string `json:"otp"`
}

func (r *createTenantRequest) validate() []fieldError {
	var errs []fieldError
	if r.Name == "" {
		errs = append(errs, fieldError{Field: "name", Message: "name is required"})
	}
	if len(r.OTP) != otpMinLen {
		errs = append(errs, fieldError{Field: "otp", Message: "otp must be 6 characters"})
	}
	return errs
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	tenant, err := h.svc.Create(r.Context(), req.Name, req.OTP)
	if err != nil {
		if errors.Is(err, service.ErrOTPTaken) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create tenant", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create tenant")
		return
	}

	writeData(w, http.StatusCreated, "tenant created", tenant)
}

type updateTenantRequest struct {
	Name *string `json:"name"`
	OTP  *string `json:"otp"`
}

func (r *updateTenantRequest) validate() []fieldError {
	var errs []fieldError
	if r.Name != nil && *r.Name == "" {
		errs = append(errs, fieldError{Field: "name", Message: "name must not be empty"})
	}
	if r.OTP != nil && (len(*r.OTP) < otpMinLen || len(*r.OTP) > otpMaxLen) {
		errs = append(errs, fieldError{Field: "otp", Message: "otp must be 6-10 characters"})
	}
	return errs
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	var req updateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	tenant, err := h.svc.Update(r.Context(), id, domain.TenantUpdate{Name: req.Name, OTP: req.OTP})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenantNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrOTPTaken):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update tenant", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update tenant")
		}
		return
	}

	writeData(w, http.StatusOK, "tenant updated", tenant)
}

func (h *TenantHandler) RegenerateOTP(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	tenant, err := h.svc.RegenerateOTP(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to regenerate otp", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to regenerate otp")
		return
	}

	writeData(w, http.StatusOK, "otp regenerated", tenant)
}

type verifyOTPRequest struct {
	OTP string `json:"otp"`
}

type verifyOTPResponse struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
}

func (h *TenantHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OTP == "" {
		writeError(w, http.StatusBadRequest, "otp is required")
		return
	}

	tenant, err := h.svc.VerifyOTP(r.Context(), req.OTP)
	if err != nil {
		if errors.Is(err, service.ErrOTPInvalid) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to verify otp", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to verify otp")
		return
	}

	writeData(w, http.StatusOK, "otp valid", verifyOTPResponse{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
	})
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list tenants", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}
	writeData(w, http.StatusOK, "", tenants)
}

func (h *TenantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	tenant, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to get tenant", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get tenant")
		return
	}

	writeData(w, http.StatusOK, "", tenant)
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to delete tenant", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete tenant")
		return
	}

	writeData(w, http.StatusOK, "tenant deleted", nil)
}

func (h *TenantHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAll(r.Context()); err != nil {
		h.logger.Error("failed to delete tenants", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete tenants")
		return
	}
	writeData(w, http.StatusOK, "all tenants deleted", nil)
}

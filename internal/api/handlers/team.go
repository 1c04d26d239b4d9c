package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/orgdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TeamHandler struct {
	svc    *service.TeamService
	logger *zap.Logger
}

func NewTeamHandler(svc *service.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{svc: svc, logger: logger}
}

type createTeamRequest struct {
	Name     string `json:"name"`
	TenantID string `json:"tenant_id"`
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var errs []fieldError
	if req.Name == "" {
		errs = append(errs, fieldError{Field: "name", Message: "name is required"})
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		errs = append(errs, fieldError{Field: "tenant_id", Message: "tenant id is invalid"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	team, err := h.svc.Create(r.Context(), req.Name, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to create team", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create team")
		return
	}

	writeData(w, http.StatusCreated, "team created", team)
}

func (h *TeamHandler) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenant_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	teams, err := h.svc.ListByTenant(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list teams", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}
	writeData(w, http.StatusOK, "", teams)
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list teams", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}
	writeData(w, http.StatusOK, "", teams)
}

type updateTeamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeFieldErrors(w, []fieldError{{Field: "name", Message: "name is required"}})
		return
	}

	team, err := h.svc.UpdateName(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to update team", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update team")
		return
	}

	writeData(w, http.StatusOK, "team updated", team)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to delete team", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete team")
		return
	}

	writeData(w, http.StatusOK, "team deleted", nil)
}

func (h *TeamHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAll(r.Context()); err != nil {
		h.logger.Error("failed to delete teams", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete teams")
		return
	}
	writeData(w, http.StatusOK, "all teams deleted", nil)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/repository"
	"workhub-backend/pkg/auth"
	apperrors "workhub-backend/pkg/errors"
)

type ProjectHandler struct {
	projects *repository.ProjectRepository
	logger   *zap.Logger
}

func NewProjectHandler(projects *repository.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

type createProjectRequest struct {
	OrderID  string `json:"orderId,omitempty"`
	MasterID string `json:"masterId" validate:"required"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Budget   int64  `json:"budget,omitempty" validate:"omitempty,min=0"`
}

// Create handles POST /projects. The caller becomes the client side.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}

	var req createProjectRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	project, err := h.projects.Create(r.Context(), &domain.Project{
		OrderID:  req.OrderID,
		ClientID: userCtx.UserID,
		MasterID: req.MasterID,
		Title:    req.Title,
		Budget:   req.Budget,
		Status:   domain.ProjectStatusActive,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

// Get handles GET /projects/{projectID}; only participants may read.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	project, err := h.projects.FindByID(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if project.ClientID != userCtx.UserID && project.MasterID != userCtx.UserID {
		respondError(w, h.logger, apperrors.NewForbidden("not a project participant"))
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// ListMine handles GET /projects; reads the caller's mirror rows.
func (h *ProjectHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	page, err := h.projects.ListByUser(r.Context(), userCtx.UserID, paginationFromQuery(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageResponse(page))
}

type updateProjectRequest struct {
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE COMPLETED CANCELLED"`
	Budget *int64  `json:"budget,omitempty" validate:"omitempty,min=0"`
}

// Update handles PATCH /projects/{projectID}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, apperrors.NewUnauthorized("unauthorized"))
		return
	}
	projectID := chi.URLParam(r, "projectID")

	project, err := h.projects.FindByID(r.Context(), projectID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if project.ClientID != userCtx.UserID && project.MasterID != userCtx.UserID {
		respondError(w, h.logger, apperrors.NewForbidden("not a project participant"))
		return
	}

	var req updateProjectRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	patch := domain.ProjectPatch{Title: req.Title, Budget: req.Budget}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		patch.Status = &status
	}

	updated, err := h.projects.Update(r.Context(), projectID, patch)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type createMilestoneRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Amount  int64  `json:"amount,omitempty" validate:"omitempty,min=0"`
	DueDate string `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

// CreateMilestone handles POST /projects/{projectID}/milestones.
func (h *ProjectHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	var req createMilestoneRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	m, err := h.projects.CreateMilestone(r.Context(), &domain.Milestone{
		ProjectID: chi.URLParam(r, "projectID"),
		Title:     req.Title,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    domain.MilestoneStatusPending,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

// ListMilestones handles GET /projects/{projectID}/milestones.
func (h *ProjectHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.projects.ListMilestones(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, milestones)
}

type updateMilestoneRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Amount  *int64  `json:"amount,omitempty" validate:"omitempty,min=0"`
	DueDate *string `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING ACTIVE COMPLETED"`
}

// UpdateMilestone handles PATCH /projects/{projectID}/milestones/{milestoneID}.
func (h *ProjectHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	var req updateMilestoneRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	patch := domain.MilestonePatch{
		Title:   req.Title,
		Amount:  req.Amount,
		DueDate: req.DueDate,
	}
	if req.Status != nil {
		status := domain.MilestoneStatus(*req.Status)
		patch.Status = &status
	}

	m, err := h.projects.UpdateMilestone(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "milestoneID"), patch)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// DeleteMilestone handles DELETE /projects/{projectID}/milestones/{milestoneID}.
func (h *ProjectHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteMilestone(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "milestoneID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

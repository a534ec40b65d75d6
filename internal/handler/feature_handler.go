package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type FeatureHandler struct {
	features *repository.FeatureRepository
	stages   *repository.StageRepository
	guard    *ProjectGuard
	notifier *Notifier
	log      *zap.Logger
}

func NewFeatureHandler(features *repository.FeatureRepository, stages *repository.StageRepository, guard *ProjectGuard, notifier *Notifier, log *zap.Logger) *FeatureHandler {
	return &FeatureHandler{features: features, stages: stages, guard: guard, notifier: notifier, log: log}
}

type createFeatureRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate   *time.Time `json:"startDate"`
	TargetDate  *time.Time `json:"targetDate"`
}

// Create godoc
// @Summary Propose a feature on a project
// @Tags features
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Param body body createFeatureRequest true "Feature payload"
// @Success 201 {object} response.Envelope
// @Router /api/projects/{id}/features [post]
func (h *FeatureHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	project := h.guard.visibleProject(c, projectID, userID)
	if project == nil {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if role == "" {
		response.Err(c, http.StatusForbidden, "Only project members can propose features")
		return
	}

	stage, err := h.stages.First(c.Request.Context(), project.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if stage == nil {
		response.Err(c, http.StatusConflict, "Project has no stages")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	feature := &model.Feature{
		ProjectID:   project.ID,
		StageID:     stage.ID,
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        datatypes.JSONSlice[string](req.Tags),
		Status:      model.StatusOpen,
		Priority:    priority,
		StartDate:   req.StartDate,
		TargetDate:  req.TargetDate,
	}
	if err := h.features.Create(c.Request.Context(), feature); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	h.notifier.FeatureCreated(c.Request.Context(), project, feature)

	created, err := h.features.GetByID(c.Request.Context(), feature.ID)
	if err != nil || created == nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Feature created", created)
}

// ListByProject godoc
// @Summary Features of a project ordered by votes
// @Tags features
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /api/projects/{id}/features [get]
func (h *FeatureHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}
	features, err := h.features.ListByProject(c.Request.Context(), project.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", features)
}

func (h *FeatureHandler) Get(c *gin.Context) {
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	feature, _, ok := h.loadFeature(c, featureID, optionalUserID(c))
	if !ok {
		return
	}
	response.OK(c, http.StatusOK, "", feature)
}

type updateFeatureRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description"`
	Tags        *[]string  `json:"tags"`
	Status      *string    `json:"status" binding:"omitempty,oneof=open under_review in_progress completed rejected"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Progress    *int       `json:"progress" binding:"omitempty,min=0,max=100"`
	StageID     *uuid.UUID `json:"stageId"`
	StartDate   *time.Time `json:"startDate"`
	TargetDate  *time.Time `json:"targetDate"`
}

func (h *FeatureHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	feature, project, ok := h.loadFeature(c, featureID, userID)
	if !ok {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if feature.AuthorID != userID && !model.CanManageMembers(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to update this feature")
		return
	}

	statusChanged := false
	if req.Title != nil {
		feature.Title = *req.Title
	}
	if req.Description != nil {
		feature.Description = *req.Description
	}
	if req.Tags != nil {
		feature.Tags = datatypes.JSONSlice[string](*req.Tags)
	}
	if req.Status != nil && *req.Status != feature.Status {
		feature.Status = *req.Status
		statusChanged = true
	}
	if req.Priority != nil {
		feature.Priority = *req.Priority
	}
	if req.Progress != nil {
		feature.Progress = *req.Progress
	}
	if req.StageID != nil {
		stage, err := h.stages.GetByID(c.Request.Context(), *req.StageID)
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		if stage == nil || stage.ProjectID != project.ID {
			response.Err(c, http.StatusBadRequest, "Stage does not belong to this project")
			return
		}
		feature.StageID = stage.ID
	}
	if req.StartDate != nil {
		feature.StartDate = req.StartDate
	}
	if req.TargetDate != nil {
		feature.TargetDate = req.TargetDate
	}

	if err := h.features.Update(c.Request.Context(), feature); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if statusChanged {
		h.notifier.FeatureStatusChanged(c.Request.Context(), project, feature)
	}
	response.OK(c, http.StatusOK, "Feature updated", feature)
}

func (h *FeatureHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	feature, project, ok := h.loadFeature(c, featureID, userID)
	if !ok {
		return
	}
	if feature.AuthorID != userID && project.OwnerID != userID {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to delete this feature")
		return
	}

	if err := h.features.Delete(c.Request.Context(), feature.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Feature deleted", nil)
}

func (h *FeatureHandler) loadFeature(c *gin.Context, featureID, callerID uuid.UUID) (*model.Feature, *model.Project, bool) {
	feature, err := h.features.GetByID(c.Request.Context(), featureID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return nil, nil, false
	}
	if feature == nil {
		response.Err(c, http.StatusNotFound, "Feature not found")
		return nil, nil, false
	}
	project := h.guard.visibleProject(c, feature.ProjectID, callerID)
	if project == nil {
		return nil, nil, false
	}
	return feature, project, true
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type StageHandler struct {
	stages *repository.StageRepository
	guard  *ProjectGuard
	log    *zap.Logger
}

func NewStageHandler(stages *repository.StageRepository, guard *ProjectGuard, log *zap.Logger) *StageHandler {
	return &StageHandler{stages: stages, guard: guard, log: log}
}

// List godoc
// @Summary Stages of a project ordered by position
// @Tags stages
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /api/projects/{id}/stages [get]
func (h *StageHandler) List(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}
	stages, err := h.stages.ListByProject(c.Request.Context(), project.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", stages)
}

type createStageRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=60"`
	Position int    `json:"position" binding:"omitempty,min=1"`
	Color    string `json:"color"`
}

func (h *StageHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createStageRequest
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
	if !model.CanManageStages(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to manage stages")
		return
	}

	position := req.Position
	if position == 0 {
		existing, err := h.stages.ListByProject(c.Request.Context(), project.ID)
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		position = len(existing) + 1
	}
	color := req.Color
	if color == "" {
		color = "bg-gray-500"
	}

	stage := &model.RoadmapStage{
		ProjectID: project.ID,
		Title:     req.Title,
		Position:  position,
		Color:     color,
	}
	if err := h.stages.Create(c.Request.Context(), stage); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Stage created", stage)
}

type updateStageRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=60"`
	Position *int    `json:"position" binding:"omitempty,min=1"`
	Color    *string `json:"color"`
}

func (h *StageHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	stageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	stage, project, ok := h.loadStage(c, stageID, userID)
	if !ok {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if !model.CanManageStages(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to manage stages")
		return
	}

	if req.Title != nil {
		stage.Title = *req.Title
	}
	if req.Position != nil {
		stage.Position = *req.Position
	}
	if req.Color != nil {
		stage.Color = *req.Color
	}
	if err := h.stages.Update(c.Request.Context(), stage); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Stage updated", stage)
}

func (h *StageHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	stageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stage, project, ok := h.loadStage(c, stageID, userID)
	if !ok {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if !model.CanManageMembers(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to delete stages")
		return
	}

	if err := h.stages.Delete(c.Request.Context(), stage.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Stage deleted", nil)
}

// loadStage fetches a stage and its visible parent project. The caller gets
// false with the response already written on any miss.
func (h *StageHandler) loadStage(c *gin.Context, stageID, callerID uuid.UUID) (*model.RoadmapStage, *model.Project, bool) {
	stage, err := h.stages.GetByID(c.Request.Context(), stageID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return nil, nil, false
	}
	if stage == nil {
		response.Err(c, http.StatusNotFound, "Stage not found")
		return nil, nil, false
	}
	project := h.guard.visibleProject(c, stage.ProjectID, callerID)
	if project == nil {
		return nil, nil, false
	}
	return stage, project, true
}

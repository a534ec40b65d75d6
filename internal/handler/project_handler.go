package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type ProjectHandler struct {
	projects *repository.ProjectRepository
	guard    *ProjectGuard
	log      *zap.Logger
}

func NewProjectHandler(projects *repository.ProjectRepository, guard *ProjectGuard, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, guard: guard, log: log}
}

type stageInput struct {
	Title string `json:"title" binding:"required,min=1,max=60"`
	Color string `json:"color"`
}

type createProjectRequest struct {
	Title       string       `json:"title" binding:"required,min=3,max=120"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	LogoURL     string       `json:"logoUrl"`
	Visibility  string       `json:"visibility" binding:"omitempty,oneof=public private"`
	Stages      []stageInput `json:"stages" binding:"omitempty,dive"`
}

// Slugify lowercases a title and collapses every non-alphanumeric run into a
// single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	var stages []model.RoadmapStage
	if len(req.Stages) > 0 {
		for i, s := range req.Stages {
			color := s.Color
			if color == "" {
				color = "bg-gray-500"
			}
			stages = append(stages, model.RoadmapStage{
				Title:    s.Title,
				Position: i + 1,
				Color:    color,
			})
		}
	} else {
		stages = model.DefaultStages()
	}

	project := &model.Project{
		Title:       req.Title,
		Slug:        Slugify(req.Title),
		Description: req.Description,
		Category:    req.Category,
		LogoURL:     req.LogoURL,
		Visibility:  visibility,
		OwnerID:     userID,
		Stages:      stages,
	}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	created, err := h.projects.GetByID(c.Request.Context(), project.ID)
	if err != nil || created == nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Project created", created)
}

// List godoc
// @Summary Projects the caller owns or belongs to
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projects, err := h.projects.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", projects)
}

// Get godoc
// @Summary Fetch one project
// @Tags projects
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}
	response.OK(c, http.StatusOK, "", project)
}

type updateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=120"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	LogoURL     *string `json:"logoUrl"`
	Visibility  *string `json:"visibility" binding:"omitempty,oneof=public private"`
	Progress    *int    `json:"progress" binding:"omitempty,min=0,max=100"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	project := h.guard.visibleProject(c, projectID, userID)
	if project == nil {
		return
	}
	if project.OwnerID != userID {
		response.Err(c, http.StatusForbidden, "Only the project owner can update the project")
		return
	}

	if req.Title != nil {
		project.Title = *req.Title
		project.Slug = Slugify(*req.Title)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.LogoURL != nil {
		project.LogoURL = *req.LogoURL
	}
	if req.Visibility != nil {
		project.Visibility = *req.Visibility
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}
	if err := h.projects.Update(c.Request.Context(), project); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Project updated", project)
}

// Delete removes a project and everything hanging off it.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project := h.guard.visibleProject(c, projectID, userID)
	if project == nil {
		return
	}
	if project.OwnerID != userID {
		response.Err(c, http.StatusForbidden, "Only the project owner can delete the project")
		return
	}

	if err := h.projects.Delete(c.Request.Context(), projectID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Project deleted", nil)
}

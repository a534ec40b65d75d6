package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type DiscussionHandler struct {
	discussions *repository.DiscussionRepository
	activity    *repository.ActivityRepository
	guard       *ProjectGuard
	log         *zap.Logger
}

func NewDiscussionHandler(discussions *repository.DiscussionRepository, activity *repository.ActivityRepository, guard *ProjectGuard, log *zap.Logger) *DiscussionHandler {
	return &DiscussionHandler{discussions: discussions, activity: activity, guard: guard, log: log}
}

type createDiscussionRequest struct {
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

// Create godoc
// @Summary Open a discussion thread on a project
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Param body body createDiscussionRequest true "Discussion payload"
// @Success 201 {object} response.Envelope
// @Router /api/projects/{id}/discussions [post]
func (h *DiscussionHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createDiscussionRequest
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
		response.Err(c, http.StatusForbidden, "Only project members can start discussions")
		return
	}

	discussion := &model.Discussion{
		ProjectID: project.ID,
		AuthorID:  userID,
		Content:   req.Content,
	}
	if err := h.discussions.Create(c.Request.Context(), discussion); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	err := h.activity.Log(c.Request.Context(), model.ActionDiscussionCreated, userID, project.ID, map[string]any{
		"discussionId": discussion.ID.String(),
	})
	if err != nil {
		h.log.Warn("activity log failed", zap.Error(err))
	}

	created, err := h.discussions.GetByID(c.Request.Context(), discussion.ID)
	if err != nil || created == nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Discussion created", created)
}

// ListByProject godoc
// @Summary Discussions of a project, newest first
// @Tags discussions
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /api/projects/{id}/discussions [get]
func (h *DiscussionHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID := optionalUserID(c)
	project := h.guard.visibleProject(c, projectID, callerID)
	if project == nil {
		return
	}
	discussions, err := h.discussions.ListByProject(c.Request.Context(), project.ID, callerID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", discussions)
}

// Delete removes a discussion together with its replies and likes.
func (h *DiscussionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	discussion, err := h.discussions.GetByID(c.Request.Context(), discussionID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if discussion == nil {
		response.Err(c, http.StatusNotFound, "Discussion not found")
		return
	}
	project := h.guard.visibleProject(c, discussion.ProjectID, userID)
	if project == nil {
		return
	}
	role, ok := h.guard.roleOnProject(c, project, userID)
	if !ok {
		return
	}
	if discussion.AuthorID != userID && !model.CanManageMembers(role) {
		response.Err(c, http.StatusForbidden, "Insufficient permissions to delete this discussion")
		return
	}

	if err := h.discussions.Delete(c.Request.Context(), discussion.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Discussion deleted", nil)
}

func (h *DiscussionHandler) Like(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	discussion, err := h.discussions.GetByID(c.Request.Context(), discussionID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if discussion == nil {
		response.Err(c, http.StatusNotFound, "Discussion not found")
		return
	}
	if h.guard.visibleProject(c, discussion.ProjectID, userID) == nil {
		return
	}

	if err := h.discussions.Like(c.Request.Context(), discussion.ID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) {
			response.Err(c, http.StatusConflict, "Already liked")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Liked", nil)
}

func (h *DiscussionHandler) Unlike(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.discussions.Unlike(c.Request.Context(), discussionID, userID); err != nil {
		if errors.Is(err, repository.ErrLikeNotFound) {
			response.Err(c, http.StatusNotFound, "Like not found")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Like removed", nil)
}

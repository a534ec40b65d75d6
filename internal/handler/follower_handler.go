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

type FollowerHandler struct {
	followers *repository.FollowerRepository
	activity  *repository.ActivityRepository
	guard     *ProjectGuard
	log       *zap.Logger
}

func NewFollowerHandler(followers *repository.FollowerRepository, activity *repository.ActivityRepository, guard *ProjectGuard, log *zap.Logger) *FollowerHandler {
	return &FollowerHandler{followers: followers, activity: activity, guard: guard, log: log}
}

// Follow godoc
// @Summary Follow a project
// @Tags followers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Success 201 {object} response.Envelope
// @Router /api/projects/{id}/follow [post]
func (h *FollowerHandler) Follow(c *gin.Context) {
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

	follower, err := h.followers.Follow(c.Request.Context(), userID, project.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			response.Err(c, http.StatusConflict, "Already following this project")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}

	if err := h.activity.Log(c.Request.Context(), model.ActionProjectFollowed, userID, project.ID, nil); err != nil {
		h.log.Warn("activity log failed", zap.Error(err))
	}
	response.OK(c, http.StatusCreated, "Following project", follower)
}

// Unfollow godoc
// @Summary Unfollow a project
// @Tags followers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /api/projects/{id}/follow [delete]
func (h *FollowerHandler) Unfollow(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.followers.Unfollow(c.Request.Context(), userID, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFollowing) {
			response.Err(c, http.StatusNotFound, "Not following this project")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}

	if err := h.activity.Log(c.Request.Context(), model.ActionProjectUnfollowed, userID, projectID, nil); err != nil {
		h.log.Warn("activity log failed", zap.Error(err))
	}
	response.OK(c, http.StatusOK, "Unfollowed project", nil)
}

// ListByProject returns a project's followers behind the visibility gate.
func (h *FollowerHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project := h.guard.visibleProject(c, projectID, optionalUserID(c))
	if project == nil {
		return
	}
	followers, err := h.followers.ListByProject(c.Request.Context(), project.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", followers)
}

// ListMine returns the projects the caller follows, newest first.
func (h *FollowerHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	following, err := h.followers.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", following)
}
